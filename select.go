package winrender

import (
	"errors"
	"fmt"
)

// New builds a renderer for a window described by cfg.
//
// Backends are tried in priority order (Vulkan, then GL, unless
// WithBackends or cfg.Backends says otherwise). When a backend fails and another one is
// left to try, a single warning is logged and the failure is not
// returned. If every backend fails, the error wraps ErrNoBackend and
// each per-backend *BuildError.
//
// Backend packages must be linked in for their builders to be
// registered:
//
//	import (
//		_ "github.com/gogpu/winrender/backend/gl"
//		_ "github.com/gogpu/winrender/backend/vulkan"
//	)
func New(loop EventLoop, cfg WindowConfig, opts ...Option) (Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	if loop == nil {
		return nil, errors.New("winrender: nil event loop")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	order := o.backends
	if len(order) == 0 {
		order = cfg.Backends
	}
	if len(order) == 0 {
		order = DefaultPriority()
	}
	candidates := make([]Backend, 0, len(order))
	fns := make([]BuilderFunc, 0, len(order))
	for _, b := range order {
		fn, ok := lookup(b)
		if !ok {
			log.Debug("backend not registered, skipping", "backend", b)
			continue
		}
		candidates = append(candidates, b)
		fns = append(fns, fn)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: none of %v registered", ErrNoBackend, order)
	}

	req := BuildRequest{
		Loop:       loop,
		Config:     cfg,
		Validation: o.validation,
		Logger:     log,
	}

	errs := []error{ErrNoBackend}
	for i, b := range candidates {
		r, err := fns[i](req)
		if err == nil && r == nil {
			err = errors.New("builder returned no renderer")
		}
		if err == nil {
			log.Info("renderer ready", "backend", b, "scale", r.ScaleFactor())
			return r, nil
		}

		var be *BuildError
		if !errors.As(err, &be) {
			err = &BuildError{Backend: b, Err: err}
		}
		errs = append(errs, err)

		if i+1 < len(candidates) {
			log.Warn("renderer construction failed, falling back",
				"backend", b,
				"fallback", candidates[i+1],
				"err", err)
		}
	}
	return nil, errors.Join(errs...)
}
