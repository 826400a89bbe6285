package winrender

import (
	"fmt"
	"strings"
)

// Backend identifies the GPU API a renderer draws through.
type Backend uint8

const (
	// BackendUnknown is the zero value; no renderer reports it.
	BackendUnknown Backend = iota

	// BackendVulkan presents through a Vulkan swapchain.
	BackendVulkan

	// BackendGL presents through an OpenGL default framebuffer.
	BackendGL
)

// String returns the lower-case backend name used in logs and config files.
func (b Backend) String() string {
	switch b {
	case BackendVulkan:
		return "vulkan"
	case BackendGL:
		return "gl"
	default:
		return "unknown"
	}
}

// ParseBackend converts a backend name back to a Backend.
// It accepts "vulkan", "vk", "gl" and "opengl" in any case.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vulkan", "vk":
		return BackendVulkan, nil
	case "gl", "opengl":
		return BackendGL, nil
	}
	return BackendUnknown, fmt.Errorf("winrender: unknown backend %q", s)
}

// MarshalText implements encoding.TextMarshaler so WindowConfig.Backends
// round-trips through TOML config files by name.
func (b Backend) MarshalText() ([]byte, error) {
	if b == BackendUnknown {
		return nil, fmt.Errorf("winrender: cannot marshal unknown backend")
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
