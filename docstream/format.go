package docstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxStringLen bounds header and id lengths to reject corrupt streams early.
const maxStringLen = 1 << 20

var (
	// ErrExhausted is returned by Reader.Next when the stream ends, either at
	// a record boundary or inside a truncated record.
	ErrExhausted = errors.New("docstream: stream exhausted")

	// ErrCorrupt is returned for streams that cannot be decoded.
	ErrCorrupt = errors.New("docstream: corrupt stream")
)

func writeString(w io.Writer, s string) error {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

func readString(r byteReader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("%w: string length %d", ErrCorrupt, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(buf), nil
}

// isEnd reports whether err marks the end of the stream rather than a
// failure of the underlying reader.
func isEnd(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
