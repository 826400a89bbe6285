package vulkan

import (
	"errors"
	"log/slog"

	"github.com/gogpu/winrender"
)

// Renderer draws through a Vulkan swapchain owned by its presenter.
type Renderer struct {
	win    Window
	pres   Presenter
	log    *slog.Logger
	closed bool
}

var _ winrender.Renderer = (*Renderer)(nil)

// Backend implements winrender.Renderer.
func (r *Renderer) Backend() winrender.Backend { return winrender.BackendVulkan }

// Paint implements winrender.Renderer. The presenter scales the canvas
// to the window scale factor; fn draws in logical coordinates. A frame
// the presenter drops, such as while minimized, schedules a redraw and
// returns an error wrapping winrender.ErrSurfaceUnavailable.
func (r *Renderer) Paint(fn winrender.PaintFunc) error {
	if r.closed {
		return winrender.ErrClosed
	}
	err := r.pres.Draw(fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, winrender.ErrSurfaceUnavailable):
		r.log.Debug("vulkan frame dropped", "err", err)
		r.win.RequestRedraw()
		return err
	default:
		return &winrender.PaintError{Backend: winrender.BackendVulkan, Err: err}
	}
}

// Resize implements winrender.Renderer. The presenter picks up the new
// framebuffer size on the next Paint, so this only schedules one.
func (r *Renderer) Resize(size winrender.PhysicalSize) error {
	if r.closed {
		return winrender.ErrClosed
	}
	r.log.Debug("vulkan resize", "size", size)
	r.win.RequestRedraw()
	return nil
}

// RequestRepaint implements winrender.Renderer.
func (r *Renderer) RequestRepaint() { r.win.RequestRedraw() }

// ScaleFactor implements winrender.Renderer.
func (r *Renderer) ScaleFactor() float64 { return r.win.ScaleFactor() }

// Close destroys the presenter, then the window.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pres.Destroy()
	r.win.Destroy()
	return nil
}
