package gl

import (
	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/target"
)

// Builder constructs GL renderers. The zero value is not usable; start
// from DefaultBuilder and replace collaborators as needed.
type Builder struct {
	NewContext func(cfg winrender.WindowConfig) (Context, error)
	NewDevice  func() Device
}

// DefaultBuilder creates glfw windows and issues real GL calls.
func DefaultBuilder() Builder {
	return Builder{
		NewContext: newGLFWContext,
		NewDevice:  newGLDevice,
	}
}

func init() {
	winrender.Register(winrender.BackendGL, build)
}

func build(req winrender.BuildRequest) (winrender.Renderer, error) {
	r, err := DefaultBuilder().Build(req)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func buildErr(stage string, err error) error {
	return &winrender.BuildError{Backend: winrender.BackendGL, Stage: stage, Err: err}
}

// Build creates the window and context, binds the current framebuffer
// and sets up the render target and drawing surface. Any failure is
// returned as *winrender.BuildError after releasing what was created.
func (b Builder) Build(req winrender.BuildRequest) (*Renderer, error) {
	log := req.Logger
	if log == nil {
		log = winrender.Logger()
	}

	ctx, err := b.NewContext(req.Config)
	if err != nil {
		return nil, buildErr("context", err)
	}
	ctx.MakeContextCurrent()
	ctx.SwapInterval(req.Config.VSync)

	dev := b.NewDevice()
	r := &Renderer{ctx: ctx, dev: dev, log: log}

	if err := dev.Load(ctx.GLProcAddress); err != nil {
		r.release()
		return nil, buildErr("load symbols", err)
	}

	size := ctx.FramebufferSize()
	if size.Empty() {
		// Hidden windows may report no framebuffer yet.
		size = req.Config.Size.ToPhysical(ctx.ScaleFactor())
	}
	if err := r.rebuild(size); err != nil {
		r.release()
		return nil, buildErr("render target", err)
	}

	if req.Loop != nil {
		req.Loop.Attach(ctx)
	}
	log.Debug("gl renderer built",
		"size", size,
		"scale", ctx.ScaleFactor(),
		"fbo", r.rt.FramebufferID,
		"stencil", r.rt.StencilBits)
	return r, nil
}

// rebuild replaces the render target and surface at size. On error the
// current pair stays in place.
func (r *Renderer) rebuild(size winrender.PhysicalSize) error {
	fbo, err := r.dev.FramebufferBinding()
	if err != nil {
		return err
	}
	info, err := r.dev.PixelFormat(fbo)
	if err != nil {
		return err
	}
	rt, err := target.NewRenderTarget(fbo, size, info)
	if err != nil {
		return err
	}
	ct, err := target.ColorTypeFor(info.Format)
	if err != nil {
		return err
	}
	surf, err := target.NewSurface(rt, target.OriginBottomLeft, ct)
	if err != nil {
		return err
	}
	surf.SetScale(r.ctx.ScaleFactor())

	old := r.surf
	r.rt, r.surf = rt, surf
	if old != nil {
		_ = old.Close()
	}
	return nil
}
