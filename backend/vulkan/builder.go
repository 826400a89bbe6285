package vulkan

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/internal/vkswap"
	"github.com/gogpu/winrender/platform/glfwwin"
)

// Window is a window without a client API that Vulkan can present to.
type Window interface {
	winrender.Window
	vkswap.Surface
}

var _ Window = (*glfwwin.Window)(nil)

// Presenter draws frames to a Window. *vkswap.Presenter is the
// production implementation.
type Presenter interface {
	Draw(fn func(*gg.Context)) error
	Destroy()
}

// Builder constructs Vulkan renderers. Replace collaborators to build
// without a GPU.
type Builder struct {
	Probe        ProbeFunc
	NewWindow    func(cfg winrender.WindowConfig) (Window, error)
	NewPresenter func(w Window, opts vkswap.Options) (Presenter, error)
}

// DefaultBuilder probes through the wgpu hal, opens glfw windows and
// presents with vkswap.
func DefaultBuilder() Builder {
	return Builder{
		Probe:        probeHAL,
		NewWindow:    newGLFWWindow,
		NewPresenter: newPresenter,
	}
}

func init() {
	winrender.Register(winrender.BackendVulkan, build)
}

func build(req winrender.BuildRequest) (winrender.Renderer, error) {
	r, err := DefaultBuilder().Build(req)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newGLFWWindow(cfg winrender.WindowConfig) (Window, error) {
	w, err := glfwwin.NewVulkanWindow(cfg)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func newPresenter(w Window, opts vkswap.Options) (Presenter, error) {
	p, err := vkswap.New(w, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func buildErr(stage string, err error) error {
	return &winrender.BuildError{Backend: winrender.BackendVulkan, Stage: stage, Err: err}
}

// Build probes for an adapter, then opens the window and its presenter.
// Nothing is created when the probe fails. Later failures destroy the
// window before returning *winrender.BuildError.
func (b Builder) Build(req winrender.BuildRequest) (*Renderer, error) {
	log := req.Logger
	if log == nil {
		log = winrender.Logger()
	}

	info, err := b.Probe()
	if err != nil {
		return nil, buildErr("probe", err)
	}
	log.Info("vulkan adapter",
		"name", info.Name,
		"vendor", info.Vendor,
		"type", info.DeviceType.String(),
		"driver", info.Driver)

	w, err := b.NewWindow(req.Config)
	if err != nil {
		return nil, buildErr("window", err)
	}
	pres, err := b.NewPresenter(w, vkswap.Options{
		Coordinates: vkswap.CoordinatesLogical,
		Validation:  req.Validation,
		VSync:       req.Config.VSync,
		AppName:     req.Config.Title,
		Logger:      log,
	})
	if err != nil {
		w.Destroy()
		return nil, buildErr("presenter", err)
	}

	if req.Loop != nil {
		req.Loop.Attach(w)
	}
	log.Debug("vulkan renderer built", "size", w.FramebufferSize(), "scale", w.ScaleFactor())
	return &Renderer{win: w, pres: pres, log: log}, nil
}
