package vulkan

import (
	"context"
	"errors"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/internal/vkswap"
)

type fakeWindow struct {
	size      winrender.PhysicalSize
	scale     float64
	redraws   int
	destroyed bool
}

func (w *fakeWindow) FramebufferSize() winrender.PhysicalSize { return w.size }
func (w *fakeWindow) ScaleFactor() float64                    { return w.scale }
func (w *fakeWindow) RequestRedraw()                          { w.redraws++ }
func (w *fakeWindow) Destroy()                                { w.destroyed = true }
func (w *fakeWindow) VulkanProcAddr() unsafe.Pointer          { return nil }
func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}
}

func (w *fakeWindow) CreateWindowSurface(any) (uintptr, error) { return 1, nil }

// fakePresenter paints into a canvas pre-scaled like the real presenter.
type fakePresenter struct {
	win       *fakeWindow
	opts      vkswap.Options
	drawErr   error
	draws     int
	last      *gg.Context
	destroyed bool
}

func (p *fakePresenter) Draw(fn func(*gg.Context)) error {
	p.draws++
	if p.drawErr != nil {
		return p.drawErr
	}
	dc := gg.NewContext(p.win.size.Width, p.win.size.Height)
	if p.opts.Coordinates == vkswap.CoordinatesLogical {
		dc.Scale(p.win.scale, p.win.scale)
	}
	fn(dc)
	p.last = dc
	return nil
}

func (p *fakePresenter) Destroy() { p.destroyed = true }

type fakeLoop struct{ attached []winrender.Window }

func (l *fakeLoop) Attach(w winrender.Window) { l.attached = append(l.attached, w) }
func (l *fakeLoop) Wake()                     {}

var (
	errNoDriver  = errors.New("vkCreateInstance: ERROR_INCOMPATIBLE_DRIVER")
	errSwapchain = errors.New("vkCreateSwapchainKHR: ERROR_SURFACE_LOST_KHR")
)

var testAdapter = gputypes.AdapterInfo{
	Name:       "Test GPU",
	Vendor:     "Test",
	DeviceType: gputypes.DeviceTypeDiscreteGPU,
}

func fakeBuilder(win *fakeWindow, pres *fakePresenter) Builder {
	return Builder{
		Probe:     func() (gputypes.AdapterInfo, error) { return testAdapter, nil },
		NewWindow: func(winrender.WindowConfig) (Window, error) { return win, nil },
		NewPresenter: func(w Window, opts vkswap.Options) (Presenter, error) {
			pres.opts = opts
			return pres, nil
		},
	}
}

func request(loop winrender.EventLoop) winrender.BuildRequest {
	return winrender.BuildRequest{Loop: loop, Config: winrender.DefaultWindowConfig(), Validation: true}
}

// recordHandler keeps the attributes of info records.
type recordHandler struct {
	infos []map[string]string
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Level != slog.LevelInfo {
		return nil
	}
	attrs := map[string]string{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	h.infos = append(h.infos, attrs)
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }
