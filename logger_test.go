package semvec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		WithVectorType("binary").
		WithDimension(128).
		WithWorkers(4)
	ctx := context.Background()

	l.LogStreamExhausted(ctx, 40, 100, false)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "read=40")
	assert.Contains(t, buf.String(), "expected=100")
	assert.Contains(t, buf.String(), "vector_type=binary")
	assert.Contains(t, buf.String(), "dimension=128")
	assert.Contains(t, buf.String(), "workers=4")

	buf.Reset()
	l.LogBuild(ctx, nil, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.LogBuild(ctx, &BuildStats{Terms: 7, Documents: 3}, nil)
	assert.Contains(t, buf.String(), "terms=7")
	assert.Contains(t, buf.String(), "documents=3")

	buf.Reset()
	l.LogHeader(ctx, "-dimension 4", nil)
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordDocument(1)
	mc.RecordLookupMisses(1)
	mc.RecordStreamExhausted(1, 2)
	mc.RecordBuild(0, nil)
}
