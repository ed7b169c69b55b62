package repository

import (
	"time"

	"github.com/okian/numguess/pkg/logger"
	"github.com/okian/numguess/pkg/metrics"
)

// Option applies a configuration option to a store.
type Option func(*options)

type options struct {
	metrics *metrics.Manager
	logger  logger.Logger
}

func newOptions(opts []Option) options {
	o := options{
		metrics: metrics.Default(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMetrics records store latencies and failures on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// observeAppend and observeQuery time an operation and count its failure.
// They are deferred, so err points at the named result.
func (o options) observeAppend(log string, start time.Time, err *error) {
	o.metrics.RecordStoreAppendLatency(log, msSince(start))
	if *err != nil {
		o.metrics.RecordStoreError("append_" + log)
	}
}

func (o options) observeQuery(query string, start time.Time, err *error) {
	o.metrics.RecordStoreQueryLatency(query, msSince(start))
	if *err != nil {
		o.metrics.RecordStoreError("query_" + query)
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
