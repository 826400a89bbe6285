package vkswap

import (
	vk "github.com/goki/vulkan"
)

const swapchainExtension = "VK_KHR_swapchain"

type gpuCandidate struct {
	gpu        vk.PhysicalDevice
	name       string
	discrete   bool
	queueIndex uint32
}

// pickDevice returns the first discrete GPU that can render to and
// present on surface, or any such GPU if none is discrete.
func pickDevice(inst vk.Instance, surface vk.Surface) (gpuCandidate, error) {
	var count uint32
	if err := check("enumerate devices", vk.EnumeratePhysicalDevices(inst, &count, nil)); err != nil {
		return gpuCandidate{}, err
	}
	gpus := make([]vk.PhysicalDevice, count)
	if err := check("enumerate devices", vk.EnumeratePhysicalDevices(inst, &count, gpus)); err != nil {
		return gpuCandidate{}, err
	}

	var found []gpuCandidate
	for _, gpu := range gpus {
		if !hasDeviceExtension(gpu, swapchainExtension) {
			continue
		}
		idx, ok := presentQueueFamily(gpu, surface)
		if !ok {
			continue
		}
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(gpu, &props)
		props.Deref()
		found = append(found, gpuCandidate{
			gpu:        gpu,
			name:       vk.ToString(props.DeviceName[:]),
			discrete:   props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu,
			queueIndex: idx,
		})
	}
	return preferDiscrete(found)
}

func preferDiscrete(found []gpuCandidate) (gpuCandidate, error) {
	if len(found) == 0 {
		return gpuCandidate{}, errNoDevice
	}
	for _, c := range found {
		if c.discrete {
			return c, nil
		}
	}
	return found[0], nil
}

func hasDeviceExtension(gpu vk.PhysicalDevice, name string) bool {
	var count uint32
	if vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil) != vk.Success {
		return false
	}
	props := make([]vk.ExtensionProperties, count)
	if vk.EnumerateDeviceExtensionProperties(gpu, "", &count, props) != vk.Success {
		return false
	}
	for _, p := range props {
		p.Deref()
		if vk.ToString(p.ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

// presentQueueFamily finds a queue family with graphics support that can
// present to surface. Graphics queues always accept transfer commands.
func presentQueueFamily(gpu vk.PhysicalDevice, surface vk.Surface) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, families)

	for i := uint32(0); i < count; i++ {
		families[i].Deref()
		if families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, i, surface, &supported)
		if supported.B() {
			return i, true
		}
	}
	return 0, false
}

func createDevice(gpu vk.PhysicalDevice, queueIndex uint32, layers []string) (vk.Device, vk.Queue, error) {
	exts := cstrings([]string{swapchainExtension})
	lays := cstrings(layers)

	var dev vk.Device
	ret := vk.CreateDevice(gpu, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: queueIndex,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		EnabledLayerCount:       uint32(len(lays)),
		PpEnabledLayerNames:     lays,
	}, nil, &dev)
	if err := check("create device", ret); err != nil {
		return nil, nil, err
	}
	var queue vk.Queue
	vk.GetDeviceQueue(dev, queueIndex, 0, &queue)
	return dev, queue, nil
}
