package semvec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/semvec/blobstore"
	"github.com/hupe1980/semvec/config"
	"github.com/hupe1980/semvec/docstream"
	"github.com/hupe1980/semvec/index"
	"github.com/hupe1980/semvec/internal/hash"
	"github.com/hupe1980/semvec/resource"
	"github.com/hupe1980/semvec/termstore"
	"github.com/hupe1980/semvec/vector"
	"golang.org/x/sync/errgroup"
)

// BuildStats summarizes a build.
type BuildStats struct {
	// Terms is the number of term vectors after vocabulary filtering.
	Terms int
	// Documents is the number of documents folded into the term vectors.
	Documents int
	// ExpectedDocuments is the document count reported by the index.
	ExpectedDocuments int
	// StreamExhausted is set when the doc-vector stream ended before
	// ExpectedDocuments records were read.
	StreamExhausted bool
	// LookupMisses counts index terms that had no term vector.
	LookupMisses int
	// Superpositions counts document vectors added into term vectors.
	Superpositions int
	// UntouchedTerms counts term vectors that are still zero.
	UntouchedTerms int
	// Duration is the wall time of the build.
	Duration time.Duration
}

// Builder accumulates term vectors from a doc-vector stream and a
// term-frequency index. A Builder can run any number of builds, one at a
// time or concurrently.
type Builder struct {
	cfg    *config.Config
	idx    index.Reader
	typ    vector.Type
	opts   options
	logger *Logger
}

// New creates a Builder. cfg is validated, which may adjust binary settings.
func New(cfg *config.Config, idx index.Reader, optFns ...Option) (*Builder, error) {
	if idx == nil {
		return nil, ErrNilIndex
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options{
		logger:  NewLogger(nil),
		metrics: NoopMetricsCollector{},
		workers: cfg.Workers,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.workers < 1 {
		opts.workers = 1
	}
	if rc := opts.resources; rc != nil {
		opts.workers = min(opts.workers, int(rc.Config().MaxWorkers))
	}

	b := &Builder{
		cfg:  cfg,
		idx:  idx,
		typ:  cfg.Type(),
		opts: opts,
	}
	b.logger = opts.logger.WithVectorType(b.typ.String()).WithDimension(cfg.Dimension)
	for _, adj := range cfg.Adjustments() {
		b.logger.Warn("configuration adjusted", "reason", adj)
	}
	return b, nil
}

// Build runs a full build over stream: it accumulates the term vectors and
// normalizes each of them once.
func (b *Builder) Build(ctx context.Context, stream *docstream.Reader) (*termstore.Store, *BuildStats, error) {
	start := time.Now()
	store, stats, err := b.accumulate(ctx, stream)
	if err == nil {
		store.NormalizeAll()
		stats.UntouchedTerms = countZero(store)
	}
	if stats != nil {
		stats.Duration = time.Since(start)
	}
	b.opts.metrics.RecordBuild(time.Since(start), err)
	b.logger.LogBuild(ctx, stats, err)
	if err != nil {
		return nil, nil, err
	}
	return store, stats, nil
}

// Accumulate runs a build without the final normalization. The returned
// vectors hold the raw weighted sums of the document vectors.
func (b *Builder) Accumulate(ctx context.Context, stream *docstream.Reader) (*termstore.Store, *BuildStats, error) {
	start := time.Now()
	store, stats, err := b.accumulate(ctx, stream)
	if err != nil {
		return nil, nil, err
	}
	stats.UntouchedTerms = countZero(store)
	stats.Duration = time.Since(start)
	return store, stats, nil
}

func (b *Builder) accumulate(ctx context.Context, stream *docstream.Reader) (*termstore.Store, *BuildStats, error) {
	if err := b.checkHeader(ctx, stream); err != nil {
		return nil, nil, err
	}

	terms, err := b.vocabulary(ctx)
	if err != nil {
		return nil, nil, err
	}

	release, err := b.reserve(ctx, len(terms))
	if err != nil {
		return nil, nil, err
	}
	defer release()

	store := termstore.NewWithCapacity(len(terms))
	for _, term := range terms {
		v, err := b.newVector()
		if err != nil {
			return nil, nil, err
		}
		store.Put(term, v)
	}

	stats := &BuildStats{
		Terms:             store.Len(),
		ExpectedDocuments: b.idx.NumDocs(),
	}

	if b.opts.workers > 1 {
		err = b.runParallel(ctx, stream, store, stats)
	} else {
		err = b.runSequential(ctx, stream, store, stats)
	}
	if err != nil {
		return nil, nil, err
	}
	return store, stats, nil
}

// checkHeader compares the stream header with the configuration.
func (b *Builder) checkHeader(ctx context.Context, stream *docstream.Reader) error {
	hc, err := stream.HeaderConfig()
	b.logger.LogHeader(ctx, stream.Header(), err)
	if err != nil {
		if b.opts.strictHeader {
			return fmt.Errorf("%w: %w", ErrHeaderMismatch, err)
		}
		return nil
	}

	var mismatch error
	switch {
	case hc.Type() != b.typ:
		mismatch = &HeaderMismatchError{Option: "vectortype", Stream: hc.Type().String(), Config: b.typ.String()}
	case hc.Dimension != b.cfg.Dimension:
		mismatch = &HeaderMismatchError{Option: "dimension", Stream: fmt.Sprint(hc.Dimension), Config: fmt.Sprint(b.cfg.Dimension)}
	}
	if mismatch == nil {
		return nil
	}
	if b.opts.strictHeader {
		return mismatch
	}
	b.logger.LogHeaderMismatch(ctx, mismatch)
	return nil
}

// vocabulary returns the terms that pass the vocabulary filter.
func (b *Builder) vocabulary(ctx context.Context) ([]string, error) {
	terms, fstats, err := b.cfg.Filter().Scan(ctx, b.idx.Vocabulary(ctx))
	if err != nil {
		return nil, fmt.Errorf("semvec: scan vocabulary: %w", err)
	}
	b.logger.LogVocabulary(ctx, fstats.Seen, fstats.Kept)
	return terms, nil
}

// reserve charges the seeded vectors against the memory limit.
func (b *Builder) reserve(ctx context.Context, terms int) (func(), error) {
	rc := b.opts.resources
	if rc == nil {
		return func() {}, nil
	}
	bytes := int64(terms) * vectorFootprint(b.typ, b.cfg.Dimension)
	if err := rc.AcquireMemory(ctx, bytes); err != nil {
		return nil, fmt.Errorf("semvec: reserve %d bytes for %d term vectors: %w", bytes, terms, err)
	}
	return func() { rc.ReleaseMemory(bytes) }, nil
}

// vectorFootprint estimates the bytes held by one term vector while it
// accumulates.
func vectorFootprint(typ vector.Type, dim int) int64 {
	switch typ {
	case vector.TypeBinary:
		return int64(dim/8 + 8*dim)
	case vector.TypeComplex:
		return int64(8 * dim)
	default:
		return int64(4 * dim)
	}
}

func (b *Builder) newVector() (vector.Vector, error) {
	return vector.New(b.typ, b.cfg.Dimension, b.cfg.VectorOptions()...)
}

// target is one superposition: add the current document vector into v.
type target struct {
	v      vector.Vector
	weight float64
}

// targets resolves the index terms of doc to term vectors, in field order.
// It returns the number of lookup misses.
func (b *Builder) targets(ctx context.Context, store *termstore.Store, doc int, visit func(term string, t target)) (int, error) {
	misses := 0
	for _, field := range b.cfg.ContentsFields {
		tf, err := b.idx.TermFrequencies(ctx, doc, field)
		if err != nil {
			return 0, fmt.Errorf("semvec: term frequencies of document %d field %q: %w", doc, field, err)
		}
		for term, freq := range tf {
			v, ok := store.Get(term)
			if !ok {
				misses++
				continue
			}
			visit(term, target{v: v, weight: float64(freq)})
		}
	}
	return misses, nil
}

// next reads the next document vector. It reports false at the end of the
// stream, which ends the build without error.
func (b *Builder) next(ctx context.Context, stream *docstream.Reader, v vector.Vector, stats *BuildStats) (bool, error) {
	_, err := stream.Next(v)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, docstream.ErrExhausted) {
		stats.StreamExhausted = true
		b.logger.LogStreamExhausted(ctx, stats.Documents, stats.ExpectedDocuments, stream.Truncated())
		b.opts.metrics.RecordStreamExhausted(stats.Documents, stats.ExpectedDocuments)
		return false, nil
	}
	return false, fmt.Errorf("semvec: read document %d: %w", stats.Documents, err)
}

func (b *Builder) runSequential(ctx context.Context, stream *docstream.Reader, store *termstore.Store, stats *BuildStats) error {
	docVec, err := b.newVector()
	if err != nil {
		return err
	}

	for doc := 0; doc < stats.ExpectedDocuments; doc++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := b.next(ctx, stream, docVec, stats)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		var superposeErr error
		added := 0
		misses, err := b.targets(ctx, store, doc, func(term string, t target) {
			if superposeErr != nil {
				return
			}
			if err := t.v.Superpose(docVec, t.weight, nil); err != nil {
				superposeErr = fmt.Errorf("semvec: superpose document %d into %q: %w", doc, term, err)
				return
			}
			added++
		})
		if err != nil {
			return err
		}
		if superposeErr != nil {
			return superposeErr
		}
		b.record(stats, added, misses)
	}
	return nil
}

func (b *Builder) record(stats *BuildStats, added, misses int) {
	stats.Documents++
	stats.Superpositions += added
	stats.LookupMisses += misses
	b.opts.metrics.RecordDocument(added)
	if misses > 0 {
		b.opts.metrics.RecordLookupMisses(misses)
	}
}

// job carries one document to a worker together with the term vectors that
// worker owns.
type job struct {
	doc     int
	vec     vector.Vector
	targets []target
}

// runParallel reads the stream and the index on the calling goroutine and
// hands every superposition to the worker owning the term. Each worker
// consumes its jobs in document order.
func (b *Builder) runParallel(ctx context.Context, stream *docstream.Reader, store *termstore.Store, stats *BuildStats) error {
	n := b.opts.workers
	rc := b.opts.resources
	for i := range n {
		if err := rc.AcquireWorker(ctx); err != nil {
			for range i {
				rc.ReleaseWorker()
			}
			return err
		}
	}
	defer func() {
		for range n {
			rc.ReleaseWorker()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	queues := make([]chan job, n)
	for i := range queues {
		queues[i] = make(chan job, 64)
		q := queues[i]
		g.Go(func() error {
			for j := range q {
				for _, t := range j.targets {
					if err := t.v.Superpose(j.vec, t.weight, nil); err != nil {
						return fmt.Errorf("semvec: superpose document %d: %w", j.doc, err)
					}
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()

		shards := make([][]target, n)
		for doc := 0; doc < stats.ExpectedDocuments; doc++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			docVec, err := b.newVector()
			if err != nil {
				return err
			}
			ok, err := b.next(gctx, stream, docVec, stats)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			added := 0
			misses, err := b.targets(gctx, store, doc, func(term string, t target) {
				s := hash.Shard(term, n)
				shards[s] = append(shards[s], t)
				added++
			})
			if err != nil {
				return err
			}
			for s, ts := range shards {
				if len(ts) == 0 {
					continue
				}
				select {
				case queues[s] <- job{doc: doc, vec: docVec, targets: ts}:
				case <-gctx.Done():
					return gctx.Err()
				}
				shards[s] = nil
			}
			b.record(stats, added, misses)
		}
		return nil
	})

	return g.Wait()
}

func countZero(store *termstore.Store) int {
	n := 0
	for _, v := range store.All() {
		if v.IsZero() {
			n++
		}
	}
	return n
}

// BuildFromBlob opens cfg.DocVectorsFile in store and runs a full build.
// The blob is closed on every path.
func BuildFromBlob(ctx context.Context, cfg *config.Config, idx index.Reader, store blobstore.BlobStore, optFns ...Option) (*termstore.Store, *BuildStats, error) {
	b, err := New(cfg, idx, optFns...)
	if err != nil {
		return nil, nil, err
	}

	blob, err := store.Open(ctx, cfg.DocVectorsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("semvec: open doc vectors %q: %w", cfg.DocVectorsFile, err)
	}
	defer blob.Close()

	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, nil, fmt.Errorf("semvec: read doc vectors %q: %w", cfg.DocVectorsFile, err)
	}
	defer rc.Close()

	var src io.Reader = rc
	if b.opts.resources != nil {
		src = resource.NewRateLimitedReader(ctx, rc, b.opts.resources)
	}

	stream, err := docstream.NewReader(src)
	if err != nil {
		return nil, nil, fmt.Errorf("semvec: open doc vectors %q: %w", cfg.DocVectorsFile, err)
	}
	defer stream.Close()

	return b.Build(ctx, stream)
}
