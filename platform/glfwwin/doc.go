// Package glfwwin runs the host event loop and creates windows with glfw.
//
// glfw must be used from the main OS thread. Programs lock it in init:
//
//	func init() { runtime.LockOSThread() }
//
// A Loop implements winrender.EventLoop. Windows created by the backend
// builders attach themselves to it, and Run dispatches their resize,
// scale and close events to Handlers. Redraw requests made during one
// iteration are coalesced into a single Redraw call.
package glfwwin
