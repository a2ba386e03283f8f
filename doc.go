// Package semvec builds term vectors for a distributional semantic model.
//
// A term vector is the weighted superposition of the vectors of every
// document the term occurs in, weighted by its frequency in that document.
// The Builder reads pre-computed document vectors from a doc-vector stream,
// walks the documents of a term-frequency index in ordinal order and
// accumulates one vector per vocabulary term, then normalizes them once.
//
// # Quick Start
//
//	cfg, _, err := config.Parse([]string{"-dimension", "512", "-vectortype", "real"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	idx, err := sqlite.Open(ctx, "corpus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer idx.Close()
//
//	store, stats, err := semvec.BuildFromBlob(ctx, cfg, idx, blobstore.NewLocalStore("./data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stats.Terms, "term vectors from", stats.Documents, "documents")
//
// # Vector Types
//
// Three representations are supported, selected by the vectortype option:
//
//   - real: dense float32 coordinates, cosine overlap
//   - binary: bit-packed, accumulated in a fixed-point vote record and
//     tallied by majority on normalization
//   - complex: complex64 coordinates, overlap is the magnitude of the
//     Hermitian inner product
//
// # Short Streams
//
// A doc-vector stream may end before the index runs out of documents. The
// build then stops early, keeps everything accumulated so far and reports
// the condition in BuildStats, the log and the metrics collector.
//
// # Parallel Builds
//
// WithWorkers shards terms across goroutines by a stable hash. Every term is
// owned by one worker that sees the documents in order, so the result is
// identical to a sequential build.
package semvec
