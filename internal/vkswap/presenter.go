package vkswap

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gg"
	vk "github.com/goki/vulkan"

	"github.com/gogpu/winrender"
	"github.com/gogpu/winrender/target"
)

// Coordinates selects the units a Draw callback paints in.
type Coordinates uint8

const (
	// CoordinatesLogical scales the canvas by the window scale factor.
	CoordinatesLogical Coordinates = iota
	// CoordinatesPhysical leaves the canvas in device pixels.
	CoordinatesPhysical
)

// Surface is the window a Presenter draws to.
type Surface interface {
	FramebufferSize() winrender.PhysicalSize
	ScaleFactor() float64
	VulkanProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateWindowSurface(instance any) (uintptr, error)
}

// Options configure a Presenter.
type Options struct {
	Coordinates Coordinates
	// Validation enables VK_LAYER_KHRONOS_validation when installed.
	Validation bool
	VSync      bool
	AppName    string
	Logger     *slog.Logger
}

// ErrDestroyed is returned by Draw after Destroy.
var ErrDestroyed = errors.New("vkswap: presenter destroyed")

// Presenter owns the Vulkan objects for one window.
//
// Presenter is NOT safe for concurrent use. All calls must come from
// the goroutine that owns the window.
type Presenter struct {
	src  Surface
	opts Options
	log  *slog.Logger

	instance vk.Instance
	surface  vk.Surface
	gpu      vk.PhysicalDevice
	device   vk.Device
	queue    vk.Queue
	memTypes []vk.MemoryPropertyFlags

	pool     vk.CommandPool
	cmds     []vk.CommandBuffer // one per swapchain image
	acquired vk.Semaphore
	rendered vk.Semaphore
	inFlight vk.Fence

	chain   *swapchain
	fbSize  winrender.PhysicalSize
	stale   bool
	stage   *staging
	canvas  *target.Surface
	pixels  []byte
	painted winrender.PhysicalSize
}

// New creates the Vulkan instance, device and swapchain for src. On
// error everything created so far is released.
func New(src Surface, opts Options) (*Presenter, error) {
	if opts.AppName == "" {
		opts.AppName = "winrender"
	}
	p := &Presenter{src: src, opts: opts, log: opts.Logger}
	if p.log == nil {
		p.log = winrender.Logger()
	}
	if err := p.init(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Presenter) init() error {
	if err := initLoader(p.src.VulkanProcAddr()); err != nil {
		return err
	}
	inst, layers, err := createInstance(p.opts.AppName, p.src.RequiredInstanceExtensions(), p.opts.Validation)
	if err != nil {
		return err
	}
	p.instance = inst

	handle, err := p.src.CreateWindowSurface(inst)
	if err != nil {
		return fmt.Errorf("vkswap: create surface: %w", err)
	}
	p.surface = vk.SurfaceFromPointer(handle)

	cand, err := pickDevice(inst, p.surface)
	if err != nil {
		return err
	}
	p.gpu = cand.gpu
	p.memTypes = memoryTypeFlags(cand.gpu)
	if p.device, p.queue, err = createDevice(cand.gpu, cand.queueIndex, layers); err != nil {
		return err
	}
	if err := p.createSync(cand.queueIndex); err != nil {
		return err
	}
	if err := p.recreate(); err != nil {
		return err
	}

	p.log.Debug("vulkan presenter created",
		"device", cand.name,
		"discrete", cand.discrete,
		"layers", layers,
		"extent", p.Extent(),
		"format", p.chain.tex)
	return nil
}

func (p *Presenter) createSync(queueIndex uint32) error {
	ret := vk.CreateCommandPool(p.device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: queueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &p.pool)
	if err := check("create command pool", ret); err != nil {
		return err
	}

	semInfo := &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	if err := check("create semaphore", vk.CreateSemaphore(p.device, semInfo, nil, &p.acquired)); err != nil {
		return err
	}
	if err := check("create semaphore", vk.CreateSemaphore(p.device, semInfo, nil, &p.rendered)); err != nil {
		return err
	}
	// Signaled so the first Draw does not block.
	return check("create fence", vk.CreateFence(p.device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}, nil, &p.inFlight))
}

// recreate rebuilds the swapchain, staging buffer and canvas for the
// current framebuffer size. The device must be idle.
func (p *Presenter) recreate() error {
	if p.chain != nil || len(p.cmds) > 0 {
		vk.DeviceWaitIdle(p.device)
	}
	old := vk.NullSwapchain
	if p.chain != nil {
		old = p.chain.handle
		p.chain.handle = vk.NullSwapchain
	}

	p.fbSize = p.src.FramebufferSize()
	chain, err := createSwapchain(p.gpu, p.device, p.surface,
		p.fbSize.Width, p.fbSize.Height, p.opts.VSync, old)
	if err != nil {
		p.chain = nil
		return err
	}
	p.chain = chain
	p.stale = false
	if chain.empty() {
		p.freeCopies()
		return nil
	}

	size := chain.size()
	n := size.Width * size.Height * 4
	if p.stage == nil || p.stage.size < n {
		p.stage.destroy()
		if p.stage, err = newStaging(p.device, p.memTypes, n); err != nil {
			return err
		}
	}

	if p.canvas == nil || p.canvas.Target().Size() != size {
		rt, err := target.NewRenderTarget(0, size, target.FramebufferInfo{SampleCount: 1, Format: chain.tex})
		if err != nil {
			return err
		}
		ct, err := target.ColorTypeFor(chain.tex)
		if err != nil {
			return err
		}
		canvas, err := target.NewSurface(rt, target.OriginTopLeft, ct)
		if err != nil {
			return err
		}
		if p.canvas != nil {
			_ = p.canvas.Close()
		}
		p.canvas = canvas
	}
	if err := p.recordCopies(); err != nil {
		return err
	}
	p.log.Debug("vulkan swapchain recreated", "extent", size, "images", len(chain.images))
	return nil
}

// Extent returns the current swapchain size. It is empty while the
// window is minimized.
func (p *Presenter) Extent() winrender.PhysicalSize {
	if p.chain.empty() {
		return winrender.PhysicalSize{}
	}
	return p.chain.size()
}

// Draw renders one frame. fn paints into a canvas the size of the
// swapchain; with CoordinatesLogical the canvas is pre-scaled by the
// window scale factor. While the window is minimized, or when the
// swapchain changes size between painting and acquiring, the frame is
// dropped and Draw returns an error wrapping
// winrender.ErrSurfaceUnavailable.
func (p *Presenter) Draw(fn func(*gg.Context)) error {
	if p.device == nil {
		return ErrDestroyed
	}
	fb := p.src.FramebufferSize()
	if fb.Empty() {
		return errMinimized
	}
	if p.stale || p.chain.empty() || fb != p.fbSize {
		if err := p.recreate(); err != nil {
			return err
		}
		if p.chain.empty() {
			return errMinimized
		}
	}
	return runFrame(p, fn)
}

var (
	errMinimized = fmt.Errorf("vkswap: window minimized: %w", winrender.ErrSurfaceUnavailable)
	errResized   = fmt.Errorf("vkswap: swapchain resized during frame: %w", winrender.ErrSurfaceUnavailable)
)

// frame is the per-frame step sequence of a Presenter.
type frame interface {
	wait() error
	paint(fn func(*gg.Context)) error
	acquire() (uint32, error)
	submit(idx uint32) error
	present(idx uint32) error
}

// runFrame paints before acquiring, so the acquire semaphore is only
// signaled when a submit that waits on it follows.
func runFrame(f frame, fn func(*gg.Context)) error {
	if err := f.wait(); err != nil {
		return err
	}
	if err := f.paint(fn); err != nil {
		return err
	}
	idx, err := f.acquire()
	if err != nil {
		return err
	}
	if err := f.submit(idx); err != nil {
		return err
	}
	return f.present(idx)
}

func (p *Presenter) wait() error {
	return check("wait for fence", vk.WaitForFences(p.device, 1, []vk.Fence{p.inFlight}, vk.True, vk.MaxUint64))
}

func (p *Presenter) paint(fn func(*gg.Context)) error {
	if p.opts.Coordinates == CoordinatesLogical {
		p.canvas.SetScale(p.src.ScaleFactor())
	} else {
		p.canvas.SetScale(1)
	}
	dc, err := p.canvas.Acquire()
	if err != nil {
		return err
	}
	dc.Push()
	fn(dc)
	dc.Pop()
	if err := p.canvas.Flush(); err != nil {
		return fmt.Errorf("vkswap: flush canvas: %w", err)
	}
	if p.pixels, err = p.canvas.ReadPixels(p.pixels); err != nil {
		return err
	}
	p.painted = p.chain.size()
	return p.stage.write(p.pixels)
}

// acquire gets the next swapchain image. An out-of-date swapchain is
// recreated and the acquire retried once, unless the new swapchain no
// longer matches the painted pixels.
func (p *Presenter) acquire() (uint32, error) {
	for attempt := 0; ; attempt++ {
		var idx uint32
		ret := vk.AcquireNextImage(p.device, p.chain.handle, vk.MaxUint64, p.acquired, vk.NullFence, &idx)
		if ret == vk.Suboptimal {
			p.stale = true
			return idx, nil
		}
		err := check("acquire image", ret)
		if !IsOutOfDate(err) || attempt > 0 {
			return idx, err
		}
		if err := p.recreate(); err != nil {
			return 0, err
		}
		if p.chain.empty() {
			return 0, errMinimized
		}
		if p.chain.size() != p.painted {
			return 0, errResized
		}
	}
}

func (p *Presenter) submit(idx uint32) error {
	fences := []vk.Fence{p.inFlight}
	if err := check("reset fence", vk.ResetFences(p.device, 1, fences)); err != nil {
		return err
	}
	return check("queue submit", vk.QueueSubmit(p.queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{p.acquired},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{p.cmds[idx]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{p.rendered},
	}}, p.inFlight))
}

// present queues image idx. A suboptimal or out-of-date swapchain is
// rebuilt on the next Draw.
func (p *Presenter) present(idx uint32) error {
	ret := vk.QueuePresent(p.queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{p.rendered},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{p.chain.handle},
		PImageIndices:      []uint32{idx},
	})
	if ret == vk.Suboptimal {
		p.stale = true
		return nil
	}
	err := check("queue present", ret)
	if IsOutOfDate(err) {
		p.stale = true
		return nil
	}
	return err
}

var colorRange = vk.ImageSubresourceRange{
	AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	LevelCount: 1,
	LayerCount: 1,
}

// recordCopies replaces the per-image command buffers with ones that
// copy the staging buffer into each swapchain image.
func (p *Presenter) recordCopies() error {
	p.freeCopies()
	cmds := make([]vk.CommandBuffer, len(p.chain.images))
	ret := vk.AllocateCommandBuffers(p.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(cmds)),
	}, cmds)
	if err := check("allocate command buffers", ret); err != nil {
		return err
	}
	p.cmds = cmds
	for i, img := range p.chain.images {
		if err := p.record(cmds[i], img); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) freeCopies() {
	if len(p.cmds) > 0 {
		vk.FreeCommandBuffers(p.device, p.pool, uint32(len(p.cmds)), p.cmds)
		p.cmds = nil
	}
}

func (p *Presenter) record(cmd vk.CommandBuffer, img vk.Image) error {
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	if err := check("begin command buffer", ret); err != nil {
		return err
	}

	vk.CmdPipelineBarrier(cmd,
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.DependencyFlags(0), 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
			SType:               vk.StructureTypeImageMemoryBarrier,
			DstAccessMask:       vk.AccessFlags(vk.AccessTransferWriteBit),
			OldLayout:           vk.ImageLayoutUndefined,
			NewLayout:           vk.ImageLayoutTransferDstOptimal,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               img,
			SubresourceRange:    colorRange,
		}})

	vk.CmdCopyBufferToImage(cmd, p.stage.buffer, img, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: p.chain.extent.Width, Height: p.chain.extent.Height, Depth: 1},
	}})

	vk.CmdPipelineBarrier(cmd,
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
		vk.DependencyFlags(0), 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessFlags(vk.AccessTransferWriteBit),
			OldLayout:           vk.ImageLayoutTransferDstOptimal,
			NewLayout:           vk.ImageLayoutPresentSrc,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               img,
			SubresourceRange:    colorRange,
		}})

	return check("end command buffer", vk.EndCommandBuffer(cmd))
}

// Destroy waits for the device to go idle and releases every Vulkan
// object in reverse creation order. It is safe to call more than once.
func (p *Presenter) Destroy() {
	if p.device != nil {
		vk.DeviceWaitIdle(p.device)
		if p.canvas != nil {
			_ = p.canvas.Close()
			p.canvas = nil
		}
		p.stage.destroy()
		p.stage = nil
		if p.chain != nil {
			p.chain.destroy(p.device)
			p.chain = nil
		}
		if p.inFlight != vk.NullFence {
			vk.DestroyFence(p.device, p.inFlight, nil)
		}
		if p.rendered != vk.NullSemaphore {
			vk.DestroySemaphore(p.device, p.rendered, nil)
		}
		if p.acquired != vk.NullSemaphore {
			vk.DestroySemaphore(p.device, p.acquired, nil)
		}
		if p.pool != vk.NullCommandPool {
			vk.DestroyCommandPool(p.device, p.pool, nil)
		}
		vk.DestroyDevice(p.device, nil)
		p.device = nil
	}
	if p.instance != nil {
		if p.surface != vk.NullSurface {
			vk.DestroySurface(p.instance, p.surface, nil)
			p.surface = vk.NullSurface
		}
		vk.DestroyInstance(p.instance, nil)
		p.instance = nil
	}
}
