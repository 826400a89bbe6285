package winrender

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidSize is returned when a width, height or other GPU integer
	// is non-positive or does not fit in a signed 32-bit integer.
	ErrInvalidSize = errors.New("winrender: invalid size")

	// ErrNoBackend is returned by New when no backend could be built.
	ErrNoBackend = errors.New("winrender: no backend available")

	// ErrClosed is returned by operations on a closed renderer.
	ErrClosed = errors.New("winrender: renderer closed")

	// ErrSurfaceUnavailable is returned by Paint when a frame cannot be
	// shown, for example while the window is minimized. The frame is
	// dropped.
	ErrSurfaceUnavailable = errors.New("winrender: drawing surface unavailable")
)

// BuildError reports that one backend failed to construct.
type BuildError struct {
	Backend Backend
	Stage   string // e.g. "window", "context", "render target"
	Err     error
}

func (e *BuildError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("winrender: %s backend: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("winrender: %s backend: %s: %v", e.Backend, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PaintError reports that a frame could not be presented. It is not
// retried; the caller decides whether to draw again or give up.
type PaintError struct {
	Backend Backend
	Err     error
}

func (e *PaintError) Error() string {
	return fmt.Sprintf("winrender: %s present: %v", e.Backend, e.Err)
}

func (e *PaintError) Unwrap() error { return e.Err }
