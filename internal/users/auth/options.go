// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"github.com/taibuivan/swifttravel/internal/platform/clock"
	"github.com/taibuivan/swifttravel/internal/platform/metrics"
)

// Option customises the components of this package.
type Option func(*options)

type options struct {
	clock   clock.Clock
	metrics *metrics.AuthMetrics
}

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = clock.OrSystem(c) }
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.AuthMetrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	resolved := options{clock: clock.System()}
	for _, opt := range opts {
		opt(&resolved)
	}
	return resolved
}
