package docstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/hupe1980/semvec/config"
	"github.com/hupe1980/semvec/vector"
)

// Record is one (id, vector) entry of a stream.
type Record struct {
	ID     string
	Vector vector.Vector
}

// Reader reads a vector stream: an optional compression envelope, a header
// string and a sequence of records.
//
// Records carry no type or dimension information; the caller supplies a
// vector of the expected shape to Next.
type Reader struct {
	r           *bufio.Reader
	release     func()
	compression Compression
	header      string
	records     int
	truncated   bool
}

// NewReader detects the compression envelope of r and reads the header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	c := detect(br)

	inner, release, err := decompress(br, c)
	if err != nil {
		return nil, err
	}
	rd := &Reader{r: br, release: release, compression: c}
	if c != CompressionNone {
		rd.r = bufio.NewReader(inner)
	}

	header, err := readString(rd.r)
	if err != nil {
		rd.Close()
		if isEnd(err) {
			return nil, fmt.Errorf("%w: missing header", ErrCorrupt)
		}
		return nil, fmt.Errorf("docstream: read header: %w", err)
	}
	rd.header = header
	return rd, nil
}

// Header returns the raw header string.
func (r *Reader) Header() string { return r.header }

// HeaderConfig parses the header as configuration flags.
func (r *Reader) HeaderConfig() (*config.Config, error) {
	return config.ParseHeader(r.header)
}

// Compression returns the detected envelope.
func (r *Reader) Compression() Compression { return r.compression }

// Records returns the number of records read so far.
func (r *Reader) Records() int { return r.records }

// Truncated reports whether the stream ended inside a record.
func (r *Reader) Truncated() bool { return r.truncated }

// Next reads the next record into v and returns its id. At the end of the
// stream it returns an error matching ErrExhausted; any other error comes
// from the underlying reader. v is undefined after an error.
func (r *Reader) Next(v vector.Vector) (string, error) {
	id, err := readString(r.r)
	if err != nil {
		return "", r.endOrFail(err, errors.Is(err, io.ErrUnexpectedEOF))
	}
	if _, err := v.ReadFrom(r.r); err != nil {
		return "", r.endOrFail(err, true)
	}
	r.records++
	return id, nil
}

func (r *Reader) endOrFail(err error, partial bool) error {
	if !isEnd(err) {
		return fmt.Errorf("docstream: read record %d: %w", r.records, err)
	}
	r.truncated = partial
	return fmt.Errorf("%w after %d records: %w", ErrExhausted, r.records, err)
}

// All returns a sequence over the remaining records, decoding each into a
// fresh vector of the given type and dimension. The sequence ends silently
// when the stream is exhausted.
func (r *Reader) All(typ vector.Type, dimension int, opts ...vector.Option) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			v, err := vector.New(typ, dimension, opts...)
			if err != nil {
				yield(Record{}, err)
				return
			}
			id, err := r.Next(v)
			if errors.Is(err, ErrExhausted) {
				return
			}
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(Record{ID: id, Vector: v}, nil) {
				return
			}
		}
	}
}

// Close releases decoder resources. It does not close the underlying reader.
func (r *Reader) Close() error {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	return nil
}
