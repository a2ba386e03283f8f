package docstream

import (
	"github.com/hupe1980/semvec/termstore"
	"github.com/hupe1980/semvec/vector"
)

// ReadStore reads all records of r into a new store. Later records replace
// earlier records with the same id.
func ReadStore(r *Reader, typ vector.Type, dimension int, opts ...vector.Option) (*termstore.Store, error) {
	store := termstore.New()
	for rec, err := range r.All(typ, dimension, opts...) {
		if err != nil {
			return nil, err
		}
		store.Put(rec.ID, rec.Vector)
	}
	return store, nil
}
