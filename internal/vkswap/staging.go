package vkswap

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

const hostCoherent = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)

// findMemoryType returns the first type allowed by typeBits whose flags
// include all of want.
func findMemoryType(types []vk.MemoryPropertyFlags, typeBits uint32, want vk.MemoryPropertyFlags) (uint32, error) {
	for i, flags := range types {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if flags&want == want {
			return uint32(i), nil
		}
	}
	return 0, errNoMemoryType
}

func memoryTypeFlags(gpu vk.PhysicalDevice) []vk.MemoryPropertyFlags {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &props)
	props.Deref()
	flags := make([]vk.MemoryPropertyFlags, props.MemoryTypeCount)
	for i := range flags {
		props.MemoryTypes[i].Deref()
		flags[i] = props.MemoryTypes[i].PropertyFlags
	}
	return flags
}

// staging is a persistently mapped, host-coherent transfer source that
// holds one frame of pixels.
type staging struct {
	dev    vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	ptr    unsafe.Pointer
	size   int
}

func newStaging(dev vk.Device, types []vk.MemoryPropertyFlags, size int) (*staging, error) {
	s := &staging{dev: dev, buffer: vk.NullBuffer, memory: vk.NullDeviceMemory}
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &s.buffer)
	if err := check("create staging buffer", ret); err != nil {
		return nil, err
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, s.buffer, &reqs)
	reqs.Deref()
	typ, err := findMemoryType(types, reqs.MemoryTypeBits, hostCoherent)
	if err != nil {
		s.destroy()
		return nil, err
	}

	ret = vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: typ,
	}, nil, &s.memory)
	if err := check("allocate staging memory", ret); err != nil {
		s.destroy()
		return nil, err
	}
	if err := check("bind staging memory", vk.BindBufferMemory(dev, s.buffer, s.memory, 0)); err != nil {
		s.destroy()
		return nil, err
	}
	if err := check("map staging memory", vk.MapMemory(dev, s.memory, 0, vk.DeviceSize(size), 0, &s.ptr)); err != nil {
		s.destroy()
		return nil, err
	}
	s.size = size
	return s, nil
}

func (s *staging) write(pixels []byte) error {
	if len(pixels) > s.size {
		return fmt.Errorf("vkswap: frame of %d bytes exceeds staging buffer of %d", len(pixels), s.size)
	}
	if n := vk.Memcopy(s.ptr, pixels); n != len(pixels) {
		return fmt.Errorf("vkswap: copied %d of %d bytes to staging buffer", n, len(pixels))
	}
	return nil
}

func (s *staging) destroy() {
	if s == nil {
		return
	}
	if s.ptr != nil {
		vk.UnmapMemory(s.dev, s.memory)
		s.ptr = nil
	}
	if s.memory != vk.NullDeviceMemory {
		vk.FreeMemory(s.dev, s.memory, nil)
		s.memory = vk.NullDeviceMemory
	}
	if s.buffer != vk.NullBuffer {
		vk.DestroyBuffer(s.dev, s.buffer, nil)
		s.buffer = vk.NullBuffer
	}
	s.size = 0
}
