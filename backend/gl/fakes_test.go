package gl

import (
	"errors"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/target"
)

type fakeContext struct {
	size      winrender.PhysicalSize
	scale     float64
	swapErr   error
	swaps     int
	current   int
	redraws   int
	vsync     bool
	destroyed bool
}

func (c *fakeContext) FramebufferSize() winrender.PhysicalSize { return c.size }
func (c *fakeContext) ScaleFactor() float64                    { return c.scale }
func (c *fakeContext) RequestRedraw()                          { c.redraws++ }
func (c *fakeContext) Destroy()                                { c.destroyed = true }
func (c *fakeContext) MakeContextCurrent()                     { c.current++ }
func (c *fakeContext) SwapInterval(vsync bool)                 { c.vsync = vsync }
func (c *fakeContext) GLProcAddress(string) unsafe.Pointer     { return nil }

func (c *fakeContext) SwapBuffers() error {
	c.swaps++
	return c.swapErr
}

type fakeDevice struct {
	fbo        uint32
	info       target.FramebufferInfo
	loadErr    error
	formatErr  error
	presentErr error
	presented  []winrender.PhysicalSize
	released   bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		fbo:  0,
		info: target.FramebufferInfo{StencilBits: 8, Format: gputypes.TextureFormatRGBA8Unorm},
	}
}

func (d *fakeDevice) Load(func(string) unsafe.Pointer) error { return d.loadErr }
func (d *fakeDevice) FramebufferBinding() (uint32, error)    { return d.fbo, nil }

func (d *fakeDevice) PixelFormat(uint32) (target.FramebufferInfo, error) {
	return d.info, d.formatErr
}

func (d *fakeDevice) Present(s *target.Surface) error {
	d.presented = append(d.presented, s.Target().Size())
	return d.presentErr
}

func (d *fakeDevice) Release() { d.released = true }

type fakeLoop struct{ attached []winrender.Window }

func (l *fakeLoop) Attach(w winrender.Window) { l.attached = append(l.attached, w) }
func (l *fakeLoop) Wake()                     {}

var errLost = errors.New("context lost")

func fakeBuilder(ctx *fakeContext, dev *fakeDevice) Builder {
	return Builder{
		NewContext: func(winrender.WindowConfig) (Context, error) { return ctx, nil },
		NewDevice:  func() Device { return dev },
	}
}

func request(loop winrender.EventLoop) winrender.BuildRequest {
	return winrender.BuildRequest{Loop: loop, Config: winrender.DefaultWindowConfig()}
}
