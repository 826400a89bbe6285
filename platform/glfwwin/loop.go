package glfwwin

import (
	"fmt"
	"slices"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/winrender"
)

// Handlers receive window events from Run. Nil handlers are skipped.
type Handlers struct {
	// Resize is called with the new framebuffer size in device pixels.
	Resize func(size winrender.PhysicalSize)

	// ScaleChanged is called when the window moves to a display with a
	// different content scale.
	ScaleChanged func(scale float64)

	// Redraw is called at most once per iteration while a redraw is pending.
	Redraw func()

	// Close is called when the user asks to close a window. Returning
	// false keeps the window open.
	Close func() bool
}

// Loop is the glfw event loop.
type Loop struct {
	windows []*Window
}

// NewLoop initializes glfw. Call Terminate when done.
func NewLoop() (*Loop, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwwin: init: %w", err)
	}
	winrender.Logger().Debug("glfw initialized", "version", glfw.GetVersionString())
	return &Loop{}, nil
}

// Attach implements winrender.EventLoop. Windows not created by this
// package are ignored.
func (l *Loop) Attach(w winrender.Window) {
	gw, ok := w.(*Window)
	if !ok || slices.Contains(l.windows, gw) {
		return
	}
	gw.loop = l
	l.windows = append(l.windows, gw)
}

// Wake implements winrender.EventLoop.
func (l *Loop) Wake() {
	glfw.PostEmptyEvent()
}

// Run processes events until every attached window is closed or
// destroyed. It blocks in glfw.WaitEvents while nothing is pending.
func (l *Loop) Run(h Handlers) {
	for l.live() {
		if l.pending() {
			glfw.PollEvents()
		} else {
			glfw.WaitEvents()
		}
		for _, w := range l.windows {
			l.dispatch(w, h)
		}
		l.windows = slices.DeleteFunc(l.windows, func(w *Window) bool {
			return w.win == nil
		})
	}
}

// Terminate destroys remaining windows and shuts glfw down.
func (l *Loop) Terminate() {
	for _, w := range l.windows {
		w.Destroy()
	}
	l.windows = nil
	glfw.Terminate()
}

func (l *Loop) live() bool {
	for _, w := range l.windows {
		if w.win != nil && !w.win.ShouldClose() {
			return true
		}
	}
	return false
}

func (l *Loop) pending() bool {
	for _, w := range l.windows {
		if w.ev.redraw {
			return true
		}
	}
	return false
}

func (l *Loop) dispatch(w *Window, h Handlers) {
	if w.win == nil {
		return
	}
	ev := w.ev
	w.ev = events{}

	if ev.closeRequested && h.Close != nil && !h.Close() {
		w.win.SetShouldClose(false)
	}
	if w.win.ShouldClose() {
		return
	}
	if ev.resized && h.Resize != nil {
		h.Resize(ev.size)
	}
	if ev.rescaled && h.ScaleChanged != nil {
		h.ScaleChanged(w.ScaleFactor())
	}
	if w.takeRedraw(ev.redraw, w.FramebufferSize()) && h.Redraw != nil {
		h.Redraw()
	}
}
