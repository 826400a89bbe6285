package glfwwin

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/winrender"
)

// events collects callbacks fired during one glfw poll.
type events struct {
	resized        bool
	size           winrender.PhysicalSize
	rescaled       bool
	redraw         bool
	closeRequested bool
}

// Window wraps a glfw window and implements winrender.Window.
type Window struct {
	win  *glfw.Window
	loop *Loop
	ev   events

	// deferred holds a redraw requested while the framebuffer was empty.
	// The loop does not poll for it; the next event after restore runs it.
	deferred bool
}

// NewGLWindow creates a window with an OpenGL 4.1 core context:
// 8 bits per color channel and alpha, 8 stencil bits, no depth buffer,
// double buffered. The default framebuffer is single-sampled so the
// canvas can be blitted into it.
func NewGLWindow(cfg winrender.WindowConfig) (*Window, error) {
	return newWindow(cfg, func() {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.RedBits, 8)
		glfw.WindowHint(glfw.GreenBits, 8)
		glfw.WindowHint(glfw.BlueBits, 8)
		glfw.WindowHint(glfw.AlphaBits, 8)
		glfw.WindowHint(glfw.DepthBits, 0)
		glfw.WindowHint(glfw.StencilBits, 8)
		glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
		glfw.WindowHint(glfw.Samples, 0)
	})
}

// NewVulkanWindow creates a window without a client API context so a
// Vulkan surface can be created for it.
func NewVulkanWindow(cfg winrender.WindowConfig) (*Window, error) {
	if !glfw.VulkanSupported() {
		return nil, fmt.Errorf("glfwwin: vulkan loader not found")
	}
	return newWindow(cfg, func() {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	})
}

func newWindow(cfg winrender.WindowConfig, hints func()) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(cfg.Visible))
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	hints()

	gw, err := glfw.CreateWindow(cfg.Size.Width, cfg.Size.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfwwin: create window: %w", err)
	}

	w := &Window{win: gw}
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.ev.resized = true
		w.ev.size = winrender.PhysicalSize{Width: width, Height: height}
	})
	gw.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) {
		w.ev.rescaled = true
	})
	gw.SetRefreshCallback(func(_ *glfw.Window) {
		w.ev.redraw = true
	})
	gw.SetCloseCallback(func(_ *glfw.Window) {
		w.ev.closeRequested = true
	})
	return w, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// FramebufferSize implements winrender.Window.
func (w *Window) FramebufferSize() winrender.PhysicalSize {
	if w.win == nil {
		return winrender.PhysicalSize{}
	}
	width, height := w.win.GetFramebufferSize()
	return winrender.PhysicalSize{Width: width, Height: height}
}

// ScaleFactor implements winrender.Window. It returns the horizontal
// content scale, or 1 when glfw reports none.
func (w *Window) ScaleFactor() float64 {
	if w.win == nil {
		return 1
	}
	sx, _ := w.win.GetContentScale()
	if sx <= 0 {
		return 1
	}
	return float64(sx)
}

// RequestRedraw implements winrender.Window.
func (w *Window) RequestRedraw() {
	w.ev.redraw = true
	if w.loop != nil {
		w.loop.Wake()
	}
}

// takeRedraw reports whether a redraw should run now for a framebuffer
// of the given size. Requests made while minimized are parked until the
// framebuffer is non-empty again.
func (w *Window) takeRedraw(requested bool, size winrender.PhysicalSize) bool {
	if !requested && !w.deferred {
		return false
	}
	if size.Empty() {
		w.deferred = true
		return false
	}
	w.deferred = false
	return true
}

// Destroy implements winrender.Window.
func (w *Window) Destroy() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
}

// Handle returns the glfw window, or nil after Destroy.
func (w *Window) Handle() *glfw.Window { return w.win }

// MakeContextCurrent binds the window's GL context to this thread.
func (w *Window) MakeContextCurrent() {
	w.win.MakeContextCurrent()
}

// SwapInterval sets the vsync interval of the current GL context.
func (w *Window) SwapInterval(vsync bool) {
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// SwapBuffers presents the GL back buffer. glfw reports failures by
// panicking; they are returned instead.
func (w *Window) SwapBuffers() (err error) {
	if w.win == nil {
		return fmt.Errorf("glfwwin: swap on destroyed window")
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("glfwwin: swap buffers: %w", e)
				return
			}
			err = fmt.Errorf("glfwwin: swap buffers: %v", r)
		}
	}()
	w.win.SwapBuffers()
	return nil
}

// GLProcAddress resolves an OpenGL entry point for the current context.
func (w *Window) GLProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

// VulkanProcAddr returns vkGetInstanceProcAddr as loaded by glfw.
func (w *Window) VulkanProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// RequiredInstanceExtensions lists the Vulkan instance extensions needed
// to create a surface for this window.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.win.GetRequiredInstanceExtensions()
}

// CreateWindowSurface creates a VkSurfaceKHR for instance and returns
// its handle.
func (w *Window) CreateWindowSurface(instance any) (uintptr, error) {
	if w.win == nil {
		return 0, fmt.Errorf("glfwwin: surface for destroyed window")
	}
	return w.win.CreateWindowSurface(instance, nil)
}
