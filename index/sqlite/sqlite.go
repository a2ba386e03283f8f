package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"sync"

	"github.com/hupe1980/semvec/index"

	_ "modernc.org/sqlite"
)

// Index is a term-frequency index persisted in a SQLite database.
type Index struct {
	db      *sql.DB
	ownsDB  bool
	mu      sync.RWMutex
	numDocs int
	closed  bool
}

// Ensure Index implements index.Index
var _ index.Index = (*Index)(nil)

// Open opens (or creates) the SQLite database at dsn and returns an Index
// that owns it. Use ":memory:" for a transient database.
func Open(ctx context.Context, dsn string) (*Index, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("index/sqlite: open %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	idx, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	idx.ownsDB = true
	return idx, nil
}

// New wraps an existing database handle. The caller keeps ownership of db.
func New(ctx context.Context, db *sql.DB) (*Index, error) {
	if db == nil {
		return nil, fmt.Errorf("index/sqlite: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("index/sqlite: ensure schema: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return nil, fmt.Errorf("index/sqlite: count documents: %w", err)
	}
	return &Index{db: db, numDocs: n}, nil
}

// Add appends a tokenized document and returns its ordinal.
func (idx *Index) Add(ctx context.Context, doc index.Document) (int, error) {
	fields := make(map[string]map[string]int, len(doc))
	for field, tokens := range doc {
		if len(tokens) > 0 {
			fields[field] = index.Count(tokens)
		}
	}
	return idx.AddFrequencies(ctx, fields)
}

// AddFrequencies appends a document given as field -> term -> frequency.
func (idx *Index) AddFrequencies(ctx context.Context, fields map[string]map[string]int) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, index.ErrClosed
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	ord := idx.numDocs
	if _, err := tx.ExecContext(ctx, `INSERT INTO documents(ord) VALUES(?)`, ord); err != nil {
		return 0, fmt.Errorf("index/sqlite: insert document %d: %w", ord, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO postings(doc, field, term, freq) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for field, tf := range fields {
		for term, freq := range tf {
			if _, err := stmt.ExecContext(ctx, ord, field, term, freq); err != nil {
				return 0, fmt.Errorf("index/sqlite: insert posting %q/%q: %w", field, term, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	idx.numDocs++
	return ord, nil
}

func (idx *Index) NumDocs() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.numDocs
}

// Vocabulary yields the distinct terms in lexical order. The result set is
// read completely before the first entry is yielded so that callers may
// query the index while iterating.
func (idx *Index) Vocabulary(ctx context.Context) iter.Seq2[index.VocabularyEntry, error] {
	return func(yield func(index.VocabularyEntry, error) bool) {
		entries, err := idx.vocabulary(ctx)
		if err != nil {
			yield(index.VocabularyEntry{}, err)
			return
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				yield(index.VocabularyEntry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (idx *Index) vocabulary(ctx context.Context) ([]index.VocabularyEntry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, index.ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx,
		`SELECT term, field, SUM(freq), COUNT(*) FROM postings GROUP BY term, field ORDER BY term, field`)
	if err != nil {
		return nil, fmt.Errorf("index/sqlite: query vocabulary: %w", err)
	}
	defer rows.Close()

	var out []index.VocabularyEntry
	for rows.Next() {
		var (
			term, field string
			freq, docs  int
		)
		if err := rows.Scan(&term, &field, &freq, &docs); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].Term != term {
			out = append(out, index.VocabularyEntry{
				Term:           term,
				Frequencies:    make(map[string]int),
				DocFrequencies: make(map[string]int),
			})
		}
		out[len(out)-1].Frequencies[field] = freq
		out[len(out)-1].DocFrequencies[field] = docs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (idx *Index) TermFrequencies(ctx context.Context, doc int, field string) (map[string]int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, index.ErrClosed
	}
	if doc < 0 || doc >= idx.numDocs {
		return nil, fmt.Errorf("%w: %d of %d", index.ErrDocumentOutOfRange, doc, idx.numDocs)
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT term, freq FROM postings WHERE doc = ? AND field = ?`, doc, field)
	if err != nil {
		return nil, fmt.Errorf("index/sqlite: query document %d: %w", doc, err)
	}
	defer rows.Close()

	tf := make(map[string]int)
	for rows.Next() {
		var (
			term string
			freq int
		)
		if err := rows.Scan(&term, &freq); err != nil {
			return nil, err
		}
		tf[term] = freq
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tf, nil
}

// Close marks the index closed and closes the database if the index owns it.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil
	}
	idx.closed = true
	if idx.ownsDB {
		return idx.db.Close()
	}
	return nil
}
