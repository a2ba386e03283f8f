// Package sqlite provides a term-frequency index stored in SQLite using the
// pure Go modernc.org/sqlite driver.
//
// The database holds a documents table with one row per document ordinal and
// a postings table with one row per (document, field, term).
//
//	idx, err := sqlite.Open(ctx, "index.db")
//	if err != nil {
//		return err
//	}
//	defer idx.Close()
package sqlite
