package vkswap

import (
	vk "github.com/goki/vulkan"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/winrender"
)

// surfaceFormats in preference order. UNORM keeps canvas bytes as
// written; sRGB variants hold the same encoding and are accepted next.
var surfaceFormats = []struct {
	vk  vk.Format
	gpu gputypes.TextureFormat
}{
	{vk.FormatB8g8r8a8Unorm, gputypes.TextureFormatBGRA8Unorm},
	{vk.FormatR8g8b8a8Unorm, gputypes.TextureFormatRGBA8Unorm},
	{vk.FormatB8g8r8a8Srgb, gputypes.TextureFormatBGRA8UnormSrgb},
	{vk.FormatR8g8b8a8Srgb, gputypes.TextureFormatRGBA8UnormSrgb},
}

// chooseFormat picks the surface format that frames are copied into and
// its texture format equivalent.
func chooseFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, gputypes.TextureFormat, error) {
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		// The surface has no preference.
		return vk.SurfaceFormat{
			Format:     vk.FormatB8g8r8a8Unorm,
			ColorSpace: formats[0].ColorSpace,
		}, gputypes.TextureFormatBGRA8Unorm, nil
	}
	for _, want := range surfaceFormats {
		for _, f := range formats {
			if f.Format == want.vk {
				return f, want.gpu, nil
			}
		}
	}
	return vk.SurfaceFormat{}, gputypes.TextureFormatUndefined, errNoFormat
}

// chooseExtent returns the swapchain extent. A current width of
// vk.MaxUint32 means the surface takes its size from the swapchain, in
// which case the framebuffer size is clamped to the allowed range.
func chooseExtent(current, minExtent, maxExtent vk.Extent2D, fbWidth, fbHeight int) vk.Extent2D {
	if current.Width != vk.MaxUint32 {
		return current
	}
	return vk.Extent2D{
		Width:  clampDim(fbWidth, minExtent.Width, maxExtent.Width),
		Height: clampDim(fbHeight, minExtent.Height, maxExtent.Height),
	}
}

func clampDim(v int, lo, hi uint32) uint32 {
	switch {
	case v < 0 || uint64(v) < uint64(lo):
		return lo
	case hi > 0 && uint64(v) > uint64(hi):
		return hi
	}
	return uint32(v)
}

// imageCount asks for one image more than the minimum so acquire does
// not stall on the presentation engine.
func imageCount(minCount, maxCount uint32) uint32 {
	n := minCount + 1
	if maxCount > 0 && n > maxCount {
		n = maxCount
	}
	return n
}

func compositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for _, bit := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&vk.CompositeAlphaFlags(bit) != 0 {
			return bit
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// presentMode returns FIFO when vsync is on. Without vsync it prefers
// mailbox, then immediate. FIFO is always supported.
func presentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, want := range []vk.PresentMode{vk.PresentModeMailbox, vk.PresentModeImmediate} {
		for _, m := range modes {
			if m == want {
				return m
			}
		}
	}
	return vk.PresentModeFifo
}

type swapchain struct {
	handle vk.Swapchain
	images []vk.Image
	extent vk.Extent2D
	format vk.SurfaceFormat
	tex    gputypes.TextureFormat
}

func (s *swapchain) size() winrender.PhysicalSize {
	return winrender.PhysicalSize{Width: int(s.extent.Width), Height: int(s.extent.Height)}
}

// createSwapchain builds a swapchain for surface and destroys old if it
// is not vk.NullSwapchain. The returned swapchain may have a zero extent
// when the window is minimized; in that case no handle is created.
func createSwapchain(gpu vk.PhysicalDevice, dev vk.Device, surface vk.Surface,
	fbWidth, fbHeight int, vsync bool, old vk.Swapchain) (*swapchain, error) {
	defer func() {
		if old != vk.NullSwapchain {
			vk.DestroySwapchain(dev, old, nil)
		}
	}()

	var caps vk.SurfaceCapabilities
	if err := check("surface capabilities", vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps)); err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	var count uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	formats := make([]vk.SurfaceFormat, count)
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats)
	for i := range formats {
		formats[i].Deref()
	}
	format, tex, err := chooseFormat(formats)
	if err != nil {
		return nil, err
	}

	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, nil)
	modes := make([]vk.PresentMode, count)
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, modes)

	sc := &swapchain{
		handle: vk.NullSwapchain,
		extent: chooseExtent(caps.CurrentExtent, caps.MinImageExtent, caps.MaxImageExtent, fbWidth, fbHeight),
		format: format,
		tex:    tex,
	}
	if sc.extent.Width == 0 || sc.extent.Height == 0 {
		return sc, nil
	}

	preTransform := vk.SurfaceTransformIdentityBit
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&preTransform == 0 {
		preTransform = caps.CurrentTransform
	}

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(dev, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount(caps.MinImageCount, caps.MaxImageCount),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      sc.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageTransferDstBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha(caps.SupportedCompositeAlpha),
		PresentMode:      presentMode(modes, vsync),
		Clipped:          vk.True,
		OldSwapchain:     old,
	}, nil, &handle)
	if err := check("create swapchain", ret); err != nil {
		return nil, err
	}
	sc.handle = handle

	if err := check("swapchain images", vk.GetSwapchainImages(dev, handle, &count, nil)); err != nil {
		sc.destroy(dev)
		return nil, err
	}
	sc.images = make([]vk.Image, count)
	if err := check("swapchain images", vk.GetSwapchainImages(dev, handle, &count, sc.images)); err != nil {
		sc.destroy(dev)
		return nil, err
	}
	return sc, nil
}

func (s *swapchain) empty() bool { return s == nil || s.handle == vk.NullSwapchain }

func (s *swapchain) destroy(dev vk.Device) {
	if s.empty() {
		return
	}
	vk.DestroySwapchain(dev, s.handle, nil)
	s.handle = vk.NullSwapchain
	s.images = nil
}
