package gl

import (
	"log/slog"

	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/target"
)

// Renderer draws through an OpenGL context.
type Renderer struct {
	ctx    Context
	dev    Device
	log    *slog.Logger
	rt     target.RenderTarget
	surf   *target.Surface
	closed bool
}

var _ winrender.Renderer = (*Renderer)(nil)

// Backend implements winrender.Renderer.
func (r *Renderer) Backend() winrender.Backend { return winrender.BackendGL }

// Paint implements winrender.Renderer. The frame is uploaded, blitted
// and swapped; a swap failure is returned as *winrender.PaintError.
func (r *Renderer) Paint(fn winrender.PaintFunc) error {
	if r.closed {
		return winrender.ErrClosed
	}
	dc, err := r.surf.Acquire()
	if err != nil {
		return err
	}
	r.ctx.MakeContextCurrent()
	if sf := r.ctx.ScaleFactor(); sf != r.surf.ScaleFactor() {
		r.surf.SetScale(sf)
	}

	// Transforms set by fn do not leak into the next frame.
	dc.Push()
	fn(dc)
	dc.Pop()

	if err := r.surf.Flush(); err != nil {
		return r.paintErr(err)
	}
	if err := r.dev.Present(r.surf); err != nil {
		return r.paintErr(err)
	}
	if err := r.ctx.SwapBuffers(); err != nil {
		return r.paintErr(err)
	}
	return nil
}

func (r *Renderer) paintErr(err error) error {
	return &winrender.PaintError{Backend: winrender.BackendGL, Err: err}
}

// Resize implements winrender.Renderer. It rebuilds the render target
// and surface at size, reapplies the scale factor and requests a
// redraw. On error the previous target and surface remain in use.
func (r *Renderer) Resize(size winrender.PhysicalSize) error {
	if r.closed {
		return winrender.ErrClosed
	}
	if err := size.Validate(); err != nil {
		return err
	}
	r.ctx.MakeContextCurrent()
	if err := r.rebuild(size); err != nil {
		return err
	}
	r.log.Debug("gl render target rebuilt", "size", size, "scale", r.surf.ScaleFactor())
	r.ctx.RequestRedraw()
	return nil
}

// RequestRepaint implements winrender.Renderer.
func (r *Renderer) RequestRepaint() {
	if r.closed {
		return
	}
	r.ctx.RequestRedraw()
}

// ScaleFactor implements winrender.Renderer.
func (r *Renderer) ScaleFactor() float64 {
	return r.ctx.ScaleFactor()
}

// Surface returns the current drawing surface. It is replaced on Resize.
func (r *Renderer) Surface() *target.Surface { return r.surf }

// Target returns the current render target description.
func (r *Renderer) Target() target.RenderTarget { return r.rt }

// Close implements winrender.Renderer.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.release()
	r.log.Debug("gl renderer closed")
	return nil
}

func (r *Renderer) release() {
	if r.surf != nil {
		_ = r.surf.Close()
		r.surf = nil
	}
	if r.dev != nil {
		r.ctx.MakeContextCurrent()
		r.dev.Release()
	}
	r.ctx.Destroy()
}
