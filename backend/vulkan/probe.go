package vulkan

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Registers the hal Vulkan backend used by the adapter probe.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoAdapter means the Vulkan driver loaded but exposed no adapter
// that can render.
var ErrNoAdapter = errors.New("vulkan: no usable adapter")

// ProbeFunc reports the adapter a renderer would run on, or why Vulkan
// is unusable on this machine.
type ProbeFunc func() (gputypes.AdapterInfo, error)

// probeHAL asks the wgpu hal for Vulkan adapters and returns the best
// one. The hal instance is released before returning.
func probeHAL() (gputypes.AdapterInfo, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return gputypes.AdapterInfo{}, errors.New("vulkan: hal backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsVulkan,
	})
	if err != nil {
		return gputypes.AdapterInfo{}, fmt.Errorf("vulkan: create instance: %w", err)
	}
	defer instance.Destroy()

	infos := make([]gputypes.AdapterInfo, 0, 4)
	for _, a := range instance.EnumerateAdapters(nil) {
		infos = append(infos, a.Info)
	}
	return pickAdapter(infos)
}

// pickAdapter prefers hardware adapters. A CPU adapter is used only
// when nothing else is present.
func pickAdapter(infos []gputypes.AdapterInfo) (gputypes.AdapterInfo, error) {
	if len(infos) == 0 {
		return gputypes.AdapterInfo{}, ErrNoAdapter
	}
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for _, info := range infos {
			if info.DeviceType == want {
				return info, nil
			}
		}
	}
	return infos[0], nil
}
