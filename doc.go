// Package winrender picks a GPU-backed drawing surface for a desktop window.
//
// # Overview
//
// A Renderer owns one window and exposes a gg canvas to paint callbacks.
// New tries a Vulkan renderer first and falls back to OpenGL when Vulkan
// cannot be brought up (no driver, missing extension, surface creation
// failure). The chosen backend never changes afterwards.
//
// winrender draws nothing itself. All drawing happens in the PaintFunc
// passed to Renderer.Paint, in logical (DPI-independent) coordinates.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gg"
//		"github.com/gogpu/winrender"
//		_ "github.com/gogpu/winrender/backend/gl"
//		_ "github.com/gogpu/winrender/backend/vulkan"
//		"github.com/gogpu/winrender/platform/glfwwin"
//	)
//
//	loop, _ := glfwwin.NewLoop()
//	defer loop.Terminate()
//
//	r, err := winrender.New(loop, winrender.DefaultWindowConfig())
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	loop.Run(glfwwin.Handlers{
//		Resize: func(s winrender.PhysicalSize) { _ = r.Resize(s) },
//		Redraw: func() {
//			_ = r.Paint(func(dc *gg.Context) {
//				dc.ClearWithColor(gg.White)
//			})
//		},
//	})
//
// # Backends
//
//   - backend/vulkan: swapchain presentation through goki/vulkan,
//     preflighted with the gogpu/wgpu Vulkan HAL.
//   - backend/gl: OpenGL 4.1 core context from glfw; the canvas is
//     uploaded and blitted into the default framebuffer.
//
// Only the GL backend rebuilds its render target on Resize. The Vulkan
// presenter recreates its swapchain on its own.
//
// # Logging
//
// winrender is silent by default. See SetLogger.
package winrender
