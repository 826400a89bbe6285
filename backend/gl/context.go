package gl

import (
	"unsafe"

	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/platform/glfwwin"
)

// Context is a window with an OpenGL context.
type Context interface {
	winrender.Window

	MakeContextCurrent()
	SwapInterval(vsync bool)
	SwapBuffers() error
	GLProcAddress(name string) unsafe.Pointer
}

var _ Context = (*glfwwin.Window)(nil)

func newGLFWContext(cfg winrender.WindowConfig) (Context, error) {
	w, err := glfwwin.NewGLWindow(cfg)
	if err != nil {
		return nil, err
	}
	return w, nil
}
