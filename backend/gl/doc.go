// Package gl is the OpenGL backend for winrender.
//
// Importing it registers the backend:
//
//	import _ "github.com/gogpu/winrender/backend/gl"
//
// The window gets an OpenGL 4.1 core context with an 8-bit stencil
// buffer and no depth buffer. The gg canvas is drawn on the CPU, uploaded
// into a texture and blitted into the framebuffer that was bound when the
// context was created. The render target and drawing surface are rebuilt
// on every Resize and always carry the window's current scale factor.
package gl
