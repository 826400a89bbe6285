package vkswap

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Error is a failed Vulkan call.
type Error struct {
	Op     string
	Result vk.Result
}

func (e *Error) Error() string {
	return fmt.Sprintf("vkswap: %s: %v (%d)", e.Op, vk.Error(e.Result), e.Result)
}

// check wraps ret in *Error unless it is vk.Success.
func check(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return &Error{Op: op, Result: ret}
}

// IsOutOfDate reports whether err says the swapchain no longer matches
// the surface.
func IsOutOfDate(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Result == vk.ErrorOutOfDate
}

var (
	errNoDevice     = errors.New("vkswap: no device supports graphics and present on this surface")
	errNoFormat     = errors.New("vkswap: surface has no 8-bit RGBA or BGRA format")
	errNoMemoryType = errors.New("vkswap: no host-visible coherent memory type")
)
