package winrender

import "log/slog"

// Option configures New.
//
// Example:
//
//	// Skip Vulkan entirely
//	r, err := winrender.New(loop, cfg, winrender.WithBackends(winrender.BackendGL))
type Option func(*options)

type options struct {
	logger     *slog.Logger
	backends   []Backend
	validation bool
}

func defaultOptions() options {
	return options{validation: true}
}

// WithLogger sets the logger for this call only. Without it New uses
// the package logger from Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBackends overrides the order backends are tried in, taking
// precedence over WindowConfig.Backends. Backends that are not
// registered are skipped. An empty list keeps the default order.
func WithBackends(order ...Backend) Option {
	return func(o *options) {
		if len(order) > 0 {
			o.backends = order
		}
	}
}

// WithValidation toggles the GPU API debug validation layer.
// It is on by default and silently ignored when the layer is not installed.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validation = enabled
	}
}
