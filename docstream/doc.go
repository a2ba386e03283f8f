// Package docstream reads and writes vector streams.
//
// A stream is an optional compression envelope (zstd or LZ4 frame, detected
// from its magic bytes) around:
//
//   - a header: uvarint length followed by UTF-8 text holding configuration
//     flags such as "-vectortype real -dimension 200"
//   - records until end of stream: a uvarint-prefixed UTF-8 id followed by
//     the serialized vector
//
// Vectors are serialized big-endian: real vectors as dimension float32
// values, complex vectors as dimension (real, imaginary) float32 pairs and
// binary vectors as dimension/64 uint64 words.
//
// Document vectors are read with Reader. Term vectors are written with
// Writer in the same format.
package docstream
