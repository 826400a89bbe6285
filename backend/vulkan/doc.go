// Package vulkan registers the Vulkan window renderer.
//
// Importing the package for side effects makes Vulkan the first choice
// of winrender.New:
//
//	import _ "github.com/gogpu/winrender/backend/vulkan"
//
// Construction probes for a usable adapter through the wgpu hal before
// any window is created, so machines without a Vulkan driver fail fast
// and fall back. Frames are delegated to a presenter that owns the
// swapchain and tracks window size and scale factor on its own; Resize
// on this renderer only schedules a repaint.
package vulkan
