// Package vkswap presents gg canvases to a window through a Vulkan
// swapchain.
//
// It owns the whole Vulkan object graph for one window: instance,
// surface, device, swapchain, a host-visible staging buffer and the
// per-frame synchronization objects. Each Draw acquires a swapchain
// image, lets the caller paint into a CPU canvas sized to the swapchain,
// copies the pixels into the image and presents it.
//
// The swapchain is recreated when the surface reports it out of date or
// suboptimal, and when the window framebuffer size no longer matches
// its extent. Callers never resize it themselves.
package vkswap
