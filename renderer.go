package winrender

import "github.com/gogpu/gg"

// PaintFunc draws one frame. The canvas is valid only for the duration
// of the call and is already scaled so that one unit equals one logical
// pixel.
type PaintFunc func(canvas *gg.Context)

// Renderer is a window-bound drawing surface backed by one GPU API.
//
// The backend is fixed when the renderer is built and never changes.
// A Renderer is not safe for concurrent use; call it from the goroutine
// running the host event loop.
type Renderer interface {
	// Backend reports which GPU API this renderer presents through.
	Backend() Backend

	// Paint acquires the canvas, calls fn exactly once with it and
	// presents the frame. fn is not called if the canvas cannot be
	// acquired. A dropped frame returns an error wrapping
	// ErrSurfaceUnavailable; other presentation failures are returned
	// as *PaintError.
	Paint(fn PaintFunc) error

	// Resize rebuilds size-dependent GPU resources for a new physical
	// framebuffer size. Backends that track the size themselves return nil.
	Resize(size PhysicalSize) error

	// RequestRepaint asks the host event loop for another frame.
	RequestRepaint()

	// ScaleFactor returns the window's current DPI scale factor.
	ScaleFactor() float64

	// Close releases all GPU resources and destroys the window.
	// Calling Close more than once is a no-op.
	Close() error
}

// Window is the OS window a renderer draws into. The renderer that
// created it owns it and destroys it on Close.
type Window interface {
	FramebufferSize() PhysicalSize
	ScaleFactor() float64
	RequestRedraw()
	Destroy()
}

// EventLoop is the host loop a renderer is built against. It is only
// borrowed during construction.
type EventLoop interface {
	// Attach registers a window so the loop dispatches its events.
	Attach(w Window)

	// Wake interrupts a blocking wait so pending redraws are observed.
	Wake()
}
