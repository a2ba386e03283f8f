// Package memory provides an in-memory term-frequency index.
//
// # Usage
//
//	idx := memory.New()
//	_, _ = idx.AddText(ctx, map[string]string{"contents": "the cat sat"})
//
//	b, _ := semvec.New(cfg, idx)
//
// # Thread Safety
//
// The index is safe for concurrent reads and writes.
package memory
