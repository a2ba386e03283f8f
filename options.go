package semvec

import "github.com/hupe1980/semvec/resource"

type options struct {
	logger       *Logger
	metrics      MetricsCollector
	strictHeader bool
	workers      int
	resources    *resource.Controller
}

// Option configures a Builder.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithStrictHeader makes a doc-vector stream whose header names a different
// vector type or dimension than the configuration a fatal error. By default
// the mismatch is only logged.
func WithStrictHeader() Option {
	return func(o *options) {
		o.strictHeader = true
	}
}

// WithWorkers sets the number of accumulation workers. It overrides the
// workers option of the configuration.
//
// Terms are routed to workers by a stable hash and every worker sees the
// documents in order, so the result does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithResourceController bounds the build. Seeded term vectors are charged
// against its memory limit, the worker count is capped by its worker limit
// and BuildFromBlob throttles stream reads by its IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}
