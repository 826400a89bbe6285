package glfwwin

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/winrender"
	"github.com/stretchr/testify/assert"
)

type otherWindow struct{}

func (otherWindow) FramebufferSize() winrender.PhysicalSize { return winrender.PhysicalSize{} }
func (otherWindow) ScaleFactor() float64                    { return 1 }
func (otherWindow) RequestRedraw()                          {}
func (otherWindow) Destroy()                                {}

func TestAttach(t *testing.T) {
	l := &Loop{}
	w := &Window{}

	l.Attach(otherWindow{})
	assert.Empty(t, l.windows, "foreign windows are ignored")

	l.Attach(w)
	l.Attach(w)
	assert.Len(t, l.windows, 1)
	assert.Same(t, l, w.loop)
}

func TestRunWithoutLiveWindows(t *testing.T) {
	l := &Loop{}
	l.Attach(&Window{})

	called := false
	l.Run(Handlers{Redraw: func() { called = true }})
	assert.False(t, called)
}

func TestDestroyedWindow(t *testing.T) {
	w := &Window{}
	assert.True(t, w.FramebufferSize().Empty())
	assert.Equal(t, 1.0, w.ScaleFactor())
	assert.Error(t, w.SwapBuffers())
	_, err := w.CreateWindowSurface(nil)
	assert.Error(t, err)
	assert.Nil(t, w.Handle())
	w.Destroy()

	w.RequestRedraw()
	assert.True(t, w.ev.redraw)
}

func TestBoolHint(t *testing.T) {
	assert.Equal(t, glfw.True, boolHint(true))
	assert.Equal(t, glfw.False, boolHint(false))
}

func TestMinimizedRedrawDoesNotKeepLoopPolling(t *testing.T) {
	l := &Loop{}
	w := &Window{}
	l.Attach(w)
	minimized := winrender.PhysicalSize{}
	restored := winrender.PhysicalSize{Width: 800, Height: 600}

	w.RequestRedraw()
	assert.True(t, l.pending())

	ev := w.ev
	w.ev = events{}
	assert.False(t, w.takeRedraw(ev.redraw, minimized), "no redraw while minimized")
	assert.False(t, l.pending(), "parked request must let the loop block")

	assert.False(t, w.takeRedraw(false, minimized), "still minimized")
	assert.True(t, w.takeRedraw(false, restored), "parked request runs on restore")
	assert.False(t, w.takeRedraw(false, restored), "and only once")
}

func TestTakeRedraw(t *testing.T) {
	w := &Window{}
	size := winrender.PhysicalSize{Width: 1, Height: 1}
	assert.False(t, w.takeRedraw(false, size))
	assert.True(t, w.takeRedraw(true, size))
}
