package gl

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/winrender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, ctx *fakeContext, dev *fakeDevice) *Renderer {
	t.Helper()
	r, err := fakeBuilder(ctx, dev).Build(request(&fakeLoop{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestBuild(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 1600, Height: 1200}, scale: 2}
	dev := newFakeDevice()
	dev.fbo = 7
	loop := &fakeLoop{}

	r, err := fakeBuilder(ctx, dev).Build(request(loop))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, winrender.BackendGL, r.Backend())
	assert.Equal(t, uint32(7), r.Target().FramebufferID)
	assert.Equal(t, int32(8), r.Target().StencilBits)
	assert.Equal(t, 1600, r.Surface().Width())
	assert.Equal(t, 1200, r.Surface().Height())
	assert.True(t, ctx.vsync)
	require.Len(t, loop.attached, 1)
	assert.Same(t, ctx, loop.attached[0])

	x, y := r.Surface().Canvas().TransformPoint(100, 50)
	assert.InDelta(t, 200, x, 1e-9, "canvas draws in logical units")
	assert.InDelta(t, 100, y, 1e-9)
}

func TestBuildHiddenWindowUsesConfigSize(t *testing.T) {
	ctx := &fakeContext{scale: 1.5}
	r := newRenderer(t, ctx, newFakeDevice())
	assert.Equal(t, 1200, r.Surface().Width())
	assert.Equal(t, 900, r.Surface().Height())
}

func TestBuildFailures(t *testing.T) {
	t.Run("context", func(t *testing.T) {
		b := Builder{
			NewContext: func(winrender.WindowConfig) (Context, error) { return nil, errLost },
			NewDevice:  func() Device { return newFakeDevice() },
		}
		_, err := b.Build(request(nil))
		var be *winrender.BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, winrender.BackendGL, be.Backend)
		assert.Equal(t, "context", be.Stage)
		assert.ErrorIs(t, err, errLost)
	})

	t.Run("load", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 10, Height: 10}, scale: 1}
		dev := newFakeDevice()
		dev.loadErr = errLost
		_, err := fakeBuilder(ctx, dev).Build(request(nil))
		assert.ErrorIs(t, err, errLost)
		assert.True(t, ctx.destroyed, "window released on failure")
		assert.True(t, dev.released)
	})

	t.Run("pixel format", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 10, Height: 10}, scale: 1}
		dev := newFakeDevice()
		dev.formatErr = errLost
		loop := &fakeLoop{}
		_, err := fakeBuilder(ctx, dev).Build(request(loop))
		var be *winrender.BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "render target", be.Stage)
		assert.True(t, ctx.destroyed)
		assert.Empty(t, loop.attached)
	})

	t.Run("stencil overflow", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 10, Height: 10}, scale: 1}
		dev := newFakeDevice()
		dev.info.StencilBits = -1
		_, err := fakeBuilder(ctx, dev).Build(request(nil))
		assert.ErrorIs(t, err, winrender.ErrInvalidSize)
		assert.True(t, ctx.destroyed)
	})
}

func TestPaintClearWhite(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 64, Height: 48}, scale: 1}
	dev := newFakeDevice()
	r := newRenderer(t, ctx, dev)

	calls := 0
	err := r.Paint(func(dc *gg.Context) {
		calls++
		dc.ClearWithColor(gg.White)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, ctx.swaps)
	assert.Len(t, dev.presented, 1)

	for i, b := range r.Surface().Pixels() {
		if b != 255 {
			t.Fatalf("byte %d = %d, want 255", i, b)
		}
	}
}

func TestPaintDoesNotLeakTransforms(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 20, Height: 20}, scale: 2}
	r := newRenderer(t, ctx, newFakeDevice())

	for range 3 {
		require.NoError(t, r.Paint(func(dc *gg.Context) {
			dc.Translate(5, 5)
		}))
	}
	x, _ := r.Surface().Canvas().TransformPoint(1, 0)
	assert.InDelta(t, 2, x, 1e-9)
}

func TestPaintErrors(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 8, Height: 8}, scale: 1, swapErr: errLost}
		r := newRenderer(t, ctx, newFakeDevice())

		err := r.Paint(func(*gg.Context) {})
		var pe *winrender.PaintError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, winrender.BackendGL, pe.Backend)
		assert.ErrorIs(t, err, errLost)
		assert.Equal(t, 1, ctx.swaps, "not retried")
	})

	t.Run("present", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 8, Height: 8}, scale: 1}
		dev := newFakeDevice()
		dev.presentErr = errLost
		r := newRenderer(t, ctx, dev)

		err := r.Paint(func(*gg.Context) {})
		assert.ErrorIs(t, err, errLost)
		assert.Zero(t, ctx.swaps)
	})

	t.Run("surface unavailable", func(t *testing.T) {
		ctx := &fakeContext{size: winrender.PhysicalSize{Width: 8, Height: 8}, scale: 1}
		r := newRenderer(t, ctx, newFakeDevice())
		require.NoError(t, r.surf.Close())

		called := false
		err := r.Paint(func(*gg.Context) { called = true })
		assert.ErrorIs(t, err, winrender.ErrSurfaceUnavailable)
		assert.False(t, called)
		assert.Zero(t, ctx.swaps)
	})
}

func TestResize(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 800, Height: 600}, scale: 1}
	dev := newFakeDevice()
	r := newRenderer(t, ctx, dev)
	old := r.Surface()

	sizes := []winrender.PhysicalSize{{Width: 1024, Height: 768}, {Width: 1, Height: 1}, {Width: 300, Height: 2000}}
	for _, size := range sizes {
		require.NoError(t, r.Resize(size))

		var gotW, gotH int
		require.NoError(t, r.Paint(func(dc *gg.Context) {
			gotW, gotH = dc.Width(), dc.Height()
		}))
		assert.Equal(t, size.Width, gotW)
		assert.Equal(t, size.Height, gotH)
		assert.Equal(t, size, r.Target().Size())
		assert.Equal(t, size, dev.presented[len(dev.presented)-1])
	}
	assert.Equal(t, len(sizes), ctx.redraws, "each resize requests a redraw")

	_, err := old.Acquire()
	assert.ErrorIs(t, err, winrender.ErrSurfaceUnavailable, "replaced surface is closed")
}

func TestResizeReappliesScale(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 800, Height: 600}, scale: 1}
	r := newRenderer(t, ctx, newFakeDevice())

	ctx.scale = 2
	require.NoError(t, r.Resize(winrender.PhysicalSize{Width: 1600, Height: 1200}))
	assert.Equal(t, 2.0, r.ScaleFactor())
	assert.Equal(t, 2.0, r.Surface().ScaleFactor())

	x, _ := r.Surface().Canvas().TransformPoint(10, 0)
	assert.InDelta(t, 20, x, 1e-9)
}

func TestScaleFactorTracksWindow(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 100, Height: 100}, scale: 1}
	r := newRenderer(t, ctx, newFakeDevice())
	assert.Equal(t, 1.0, r.ScaleFactor())

	ctx.scale = 1.25
	assert.Equal(t, 1.25, r.ScaleFactor())

	// A scale change without a resize is picked up on the next frame.
	require.NoError(t, r.Paint(func(*gg.Context) {}))
	assert.Equal(t, 1.25, r.Surface().ScaleFactor())
}

func TestResizeErrors(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 100, Height: 100}, scale: 1}
	dev := newFakeDevice()
	r := newRenderer(t, ctx, dev)
	before := r.Surface()

	assert.ErrorIs(t, r.Resize(winrender.PhysicalSize{Width: 0, Height: 10}), winrender.ErrInvalidSize)
	assert.ErrorIs(t, r.Resize(winrender.PhysicalSize{Width: winrender.MaxDimension + 1, Height: 10}), winrender.ErrInvalidSize)

	dev.formatErr = errLost
	assert.ErrorIs(t, r.Resize(winrender.PhysicalSize{Width: 50, Height: 50}), errLost)
	assert.Same(t, before, r.Surface(), "failed resize keeps the old surface")
	assert.Equal(t, 100, r.Surface().Width())
	assert.Zero(t, ctx.redraws)
}

func TestClose(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 10, Height: 10}, scale: 1}
	dev := newFakeDevice()
	r, err := fakeBuilder(ctx, dev).Build(request(nil))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.True(t, ctx.destroyed)
	assert.True(t, dev.released)

	called := false
	assert.ErrorIs(t, r.Paint(func(*gg.Context) { called = true }), winrender.ErrClosed)
	assert.False(t, called)
	assert.ErrorIs(t, r.Resize(winrender.PhysicalSize{Width: 5, Height: 5}), winrender.ErrClosed)

	r.RequestRepaint()
	assert.Zero(t, ctx.redraws)
}

func TestRequestRepaint(t *testing.T) {
	ctx := &fakeContext{size: winrender.PhysicalSize{Width: 10, Height: 10}, scale: 1}
	r := newRenderer(t, ctx, newFakeDevice())
	r.RequestRepaint()
	r.RequestRepaint()
	assert.Equal(t, 2, ctx.redraws)
}

// Selecting through winrender.New on a host without Vulkan.
func TestSelectorFallsBackToGL(t *testing.T) {
	for _, scale := range []float64{1, 2} {
		ctx := &fakeContext{scale: scale}
		dev := newFakeDevice()

		winrender.Register(winrender.BackendVulkan, func(winrender.BuildRequest) (winrender.Renderer, error) {
			return nil, errors.New("vulkan: no driver")
		})
		winrender.Register(winrender.BackendGL, func(req winrender.BuildRequest) (winrender.Renderer, error) {
			return fakeBuilder(ctx, dev).Build(req)
		})
		t.Cleanup(func() {
			winrender.Unregister(winrender.BackendVulkan)
			winrender.Register(winrender.BackendGL, build)
		})

		cfg := winrender.DefaultWindowConfig()
		cfg.Size = winrender.LogicalSize{Width: 800, Height: 600}
		r, err := winrender.New(&fakeLoop{}, cfg)
		require.NoError(t, err)

		assert.Equal(t, winrender.BackendGL, r.Backend())
		assert.Equal(t, scale, r.ScaleFactor())
		require.NoError(t, r.Paint(func(dc *gg.Context) { dc.ClearWithColor(gg.White) }))
		assert.Equal(t, 1, ctx.swaps)
		require.NoError(t, r.Close())
	}
}
