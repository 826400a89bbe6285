package gl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/winrender/target"
)

// Device issues the GL calls a renderer needs. The context must be
// current on the calling thread.
type Device interface {
	// Load resolves GL entry points through proc.
	Load(proc func(name string) unsafe.Pointer) error

	// FramebufferBinding returns the id of the bound draw framebuffer.
	FramebufferBinding() (uint32, error)

	// PixelFormat describes framebuffer fbo.
	PixelFormat(fbo uint32) (target.FramebufferInfo, error)

	// Present copies the surface pixels into its render target.
	Present(s *target.Surface) error

	// Release deletes GL objects owned by the device.
	Release()
}

type glDevice struct {
	tex     uint32
	readFBO uint32
	texW    int32
	texH    int32
	staging []byte
}

func newGLDevice() Device { return &glDevice{} }

func (d *glDevice) Load(proc func(name string) unsafe.Pointer) error {
	if err := gl.InitWithProcAddrFunc(proc); err != nil {
		return fmt.Errorf("gl: load: %w", err)
	}
	return nil
}

func (d *glDevice) FramebufferBinding() (uint32, error) {
	var id int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &id)
	if err := glError("query framebuffer binding"); err != nil {
		return 0, err
	}
	return uint32(id), nil //nolint:gosec // GL object names are non-negative
}

func (d *glDevice) PixelFormat(fbo uint32) (target.FramebufferInfo, error) {
	var samples, stencil int32
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbo)
	gl.GetIntegerv(gl.SAMPLES, &samples)

	// The default framebuffer names its attachments differently.
	attachment := uint32(gl.STENCIL_ATTACHMENT)
	if fbo == 0 {
		attachment = gl.STENCIL
	}
	gl.GetFramebufferAttachmentParameteriv(gl.DRAW_FRAMEBUFFER, attachment,
		gl.FRAMEBUFFER_ATTACHMENT_STENCIL_SIZE, &stencil)
	if err := glError("query pixel format"); err != nil {
		return target.FramebufferInfo{}, err
	}
	return target.FramebufferInfo{
		SampleCount: int(samples),
		StencilBits: int(stencil),
		Format:      gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

func (d *glDevice) Present(s *target.Surface) error {
	rt := s.Target()
	if rt.Multisampled() {
		return errors.New("gl: cannot blit into a multisampled framebuffer")
	}
	if d.tex == 0 {
		gl.GenTextures(1, &d.tex)
		gl.GenFramebuffers(1, &d.readFBO)
	}

	// Rows arrive in framebuffer order, so the blit needs no flip.
	px, err := s.ReadPixels(d.staging)
	if err != nil {
		return err
	}
	d.staging = px

	gl.BindTexture(gl.TEXTURE_2D, d.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	format := uint32(gl.RGBA)
	if s.ColorType() == target.ColorTypeBGRA8888 {
		format = gl.BGRA
	}
	if d.texW != rt.Width || d.texH != rt.Height {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, rt.Width, rt.Height, 0,
			format, gl.UNSIGNED_BYTE, gl.Ptr(d.staging))
		d.texW, d.texH = rt.Width, rt.Height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, rt.Width, rt.Height,
			format, gl.UNSIGNED_BYTE, gl.Ptr(d.staging))
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.readFBO)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, d.tex, 0)
	if status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("gl: read framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, rt.FramebufferID)
	gl.Viewport(0, 0, rt.Width, rt.Height)
	gl.BlitFramebuffer(0, 0, rt.Width, rt.Height, 0, 0, rt.Width, rt.Height,
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return glError("present")
}

func (d *glDevice) Release() {
	if d.readFBO != 0 {
		gl.DeleteFramebuffers(1, &d.readFBO)
		d.readFBO = 0
	}
	if d.tex != 0 {
		gl.DeleteTextures(1, &d.tex)
		d.tex = 0
	}
	d.texW, d.texH = 0, 0
	d.staging = nil
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl: %s: error 0x%x", op, code)
	}
	return nil
}
