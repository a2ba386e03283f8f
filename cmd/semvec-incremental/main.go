// Command semvec-incremental builds term vectors from document vectors and a
// term-frequency index.
//
//	semvec-incremental [-config file.yaml] [flags] [<index>]
//	semvec-incremental index [flags] <index> <file>...
//	semvec-incremental elemental [flags] <index>
//	semvec-incremental compare [flags] <term> <term>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hupe1980/semvec"
	"github.com/hupe1980/semvec/blobstore"
	"github.com/hupe1980/semvec/config"
	"github.com/hupe1980/semvec/docstream"
	"github.com/hupe1980/semvec/index"
	"github.com/hupe1980/semvec/index/sqlite"
	"github.com/hupe1980/semvec/termstore"
	"github.com/hupe1980/semvec/vector"
	"github.com/joho/godotenv"
)

const usage = `Usage:
  semvec-incremental [-config file.yaml] [flags] [<index>]
        Build term vectors from -docvectorsfile and the index, write them to -termvectorsfile.
  semvec-incremental index [flags] <index> <file>...
        Index text files, one document per file, into the first -contentsfields field.
  semvec-incremental elemental [flags] <index>
        Write one random elemental vector per indexed document to -docvectorsfile.
        SEMVEC_SEED fixes the random seed.
  semvec-incremental compare [flags] <term> <term>
        Print the overlap of two vectors from -termvectorsfile.

Files may be local paths, s3://bucket/key or minio://bucket/key.
Typical flags are -dimension, -vectortype, -seedlength, -minfrequency and
-maxnonalphabetchars.

Flags:
`

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage+config.Usage())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "semvec-incremental:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "build"
	if len(args) > 0 {
		switch args[0] {
		case "index", "elemental", "compare":
			cmd, args = args[0], args[1:]
		case "help", "-h", "-help", "--help":
			return errUsage
		}
	}

	cfg, rest, err := loadConfig(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := semvec.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	switch cmd {
	case "index":
		return runIndex(ctx, cfg, rest, stdout)
	case "elemental":
		return runElemental(ctx, cfg, rest, stdout)
	case "compare":
		return runCompare(ctx, cfg, rest, stdout)
	default:
		return runBuild(ctx, cfg, rest, stdout, logger)
	}
}

// loadConfig reads an optional leading -config file and applies the flags
// on top of it.
func loadConfig(args []string) (*config.Config, []string, error) {
	cfg := config.Default()
	if len(args) >= 2 && (args[0] == "-config" || args[0] == "--config") {
		var err error
		if cfg, err = config.Load(args[1]); err != nil {
			return nil, nil, err
		}
		args = args[2:]
	}
	rest, err := cfg.Apply(args)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func indexPath(cfg *config.Config, rest []string) (string, []string, error) {
	if cfg.IndexPath != "" {
		return cfg.IndexPath, rest, nil
	}
	if len(rest) == 0 {
		return "", nil, fmt.Errorf("%w: missing index", errUsage)
	}
	return rest[0], rest[1:], nil
}

func runBuild(ctx context.Context, cfg *config.Config, rest []string, stdout io.Writer, logger *semvec.Logger) error {
	path, rest, err := indexPath(cfg, rest)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, rest)
	}

	idx, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer idx.Close()

	src, err := resolve(ctx, cfg.DocVectorsFile)
	if err != nil {
		return err
	}
	bcfg := *cfg
	bcfg.DocVectorsFile = src.name

	metrics := &semvec.BasicMetricsCollector{}
	store, stats, err := semvec.BuildFromBlob(ctx, &bcfg, idx, src.store,
		semvec.WithLogger(logger),
		semvec.WithMetricsCollector(metrics),
	)
	if err != nil {
		return err
	}

	written, err := writeVectors(ctx, cfg, cfg.TermVectorsFile, func(w *docstream.Writer) error {
		return w.WriteStore(ctx, store)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %d term vectors from %d of %d documents to %s in %s\n",
		written, stats.Documents, stats.ExpectedDocuments, cfg.TermVectorsFile, stats.Duration.Round(time.Millisecond))
	if stats.StreamExhausted {
		fmt.Fprintf(stdout, "doc vectors less than total number of documents (%d missing)\n",
			metrics.GetStats().MissingDocuments)
	}
	return nil
}

// writeVectors writes a vector stream with the configured header and
// compression to loc. A failed write is discarded.
func writeVectors(ctx context.Context, cfg *config.Config, loc string, fill func(*docstream.Writer) error) (int, error) {
	dst, err := resolve(ctx, loc)
	if err != nil {
		return 0, err
	}
	c, err := docstream.ParseCompression(cfg.Compression)
	if err != nil {
		return 0, err
	}

	wb, err := dst.store.Create(ctx, dst.name)
	if err != nil {
		return 0, err
	}
	w, err := docstream.NewWriter(wb, cfg.Header(), docstream.WithCompression(c))
	if err != nil {
		_ = blobstore.Abort(wb)
		return 0, err
	}
	if err := fill(w); err != nil {
		_ = blobstore.Abort(wb)
		return 0, err
	}
	if err := w.Close(); err != nil {
		_ = blobstore.Abort(wb)
		return 0, err
	}
	if err := wb.Close(); err != nil {
		return 0, fmt.Errorf("write %s: %w", loc, err)
	}
	return w.Records(), nil
}

func runIndex(ctx context.Context, cfg *config.Config, rest []string, stdout io.Writer) error {
	path, files, err := indexPath(cfg, rest)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no input files", errUsage)
	}

	idx, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer idx.Close()

	field := cfg.ContentsFields[0]
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := idx.Add(ctx, index.Document{field: index.Tokenize(string(data))}); err != nil {
			return fmt.Errorf("index %s: %w", f, err)
		}
	}
	fmt.Fprintf(stdout, "indexed %d files, %d documents in %s\n", len(files), idx.NumDocs(), path)
	return nil
}

func runElemental(ctx context.Context, cfg *config.Config, rest []string, stdout io.Writer) error {
	path, rest, err := indexPath(cfg, rest)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, rest)
	}

	seed := time.Now().UnixNano()
	if s := os.Getenv("SEMVEC_SEED"); s != "" {
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return fmt.Errorf("SEMVEC_SEED: %w", err)
		}
	}
	rnd := rand.New(rand.NewSource(seed))

	idx, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer idx.Close()

	n := idx.NumDocs()
	written, err := writeVectors(ctx, cfg, cfg.DocVectorsFile, func(w *docstream.Writer) error {
		for doc := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := vector.GenerateElemental(cfg.Type(), cfg.Dimension, cfg.SeedLength, rnd, cfg.VectorOptions()...)
			if err != nil {
				return err
			}
			if err := w.Write(strconv.Itoa(doc), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d elemental doc vectors to %s\n", written, cfg.DocVectorsFile)
	return nil
}

// loadTermVectors reads a term-vector file written by the build command.
func loadTermVectors(ctx context.Context, cfg *config.Config, loc string) (*termstore.Store, error) {
	src, err := resolve(ctx, loc)
	if err != nil {
		return nil, err
	}
	b, err := src.store.Open(ctx, src.name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	rc, err := blobstore.NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := docstream.NewReader(rc)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return docstream.ReadStore(r, cfg.Type(), cfg.Dimension, cfg.VectorOptions()...)
}

func runCompare(ctx context.Context, cfg *config.Config, rest []string, stdout io.Writer) error {
	if len(rest) != 2 {
		return fmt.Errorf("%w: compare needs two terms", errUsage)
	}
	store, err := loadTermVectors(ctx, cfg, cfg.TermVectorsFile)
	if err != nil {
		return err
	}
	var vs [2]vector.Vector
	for i, term := range rest {
		v, ok := store.Get(term)
		if !ok {
			return fmt.Errorf("no term vector for %q", term)
		}
		vs[i] = v
	}
	sim, err := vs[0].MeasureOverlap(vs[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s %.6f\n", rest[0], rest[1], sim)
	return nil
}
