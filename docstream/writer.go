package docstream

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/semvec/termstore"
	"github.com/hupe1980/semvec/vector"
)

type writerOptions struct {
	compression Compression
}

// WriterOption configures a Writer.
type WriterOption func(*writerOptions)

// WithCompression wraps the written stream in the given envelope.
func WithCompression(c Compression) WriterOption {
	return func(o *writerOptions) {
		o.compression = c
	}
}

// Writer writes a vector stream.
type Writer struct {
	bw      *bufio.Writer
	env     io.WriteCloser
	records int
	closed  bool
}

// NewWriter writes header to w and returns a Writer for the records.
func NewWriter(w io.Writer, header string, optFns ...WriterOption) (*Writer, error) {
	var opts writerOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	env, err := compress(w, opts.compression)
	if err != nil {
		return nil, err
	}
	wr := &Writer{bw: bufio.NewWriter(env), env: env}
	if err := writeString(wr.bw, header); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("docstream: write header: %w", err)
	}
	return wr, nil
}

// Write appends one record.
func (w *Writer) Write(id string, v vector.Vector) error {
	if err := writeString(w.bw, id); err != nil {
		return fmt.Errorf("docstream: write record %d: %w", w.records, err)
	}
	if _, err := v.WriteTo(w.bw); err != nil {
		return fmt.Errorf("docstream: write record %d: %w", w.records, err)
	}
	w.records++
	return nil
}

// WriteStore writes every vector of store, ordered by term.
func (w *Writer) WriteStore(ctx context.Context, store *termstore.Store) error {
	for i, term := range store.Terms() {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v, ok := store.Get(term)
		if !ok {
			continue
		}
		if err := w.Write(term, v); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the number of records written.
func (w *Writer) Records() int { return w.records }

// Close flushes buffered data and finishes the compression envelope. It does
// not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bw.Flush(); err != nil {
		return err
	}
	return w.env.Close()
}
