package vkswap

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// initLoader points the bindings at the loader resolved by the windowing
// library. It only needs to succeed once per process.
func initLoader(procAddr unsafe.Pointer) error {
	if procAddr == nil {
		return errors.New("vkswap: vkGetInstanceProcAddr not available")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return fmt.Errorf("vkswap: init loader: %w", err)
	}
	return nil
}

func instanceLayers() ([]string, error) {
	var count uint32
	if err := check("enumerate layers", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := check("enumerate layers", vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

func createInstance(appName string, extensions []string, validation bool) (vk.Instance, []string, error) {
	var layers []string
	if validation {
		available, err := instanceLayers()
		if err != nil {
			return nil, nil, err
		}
		layers = intersect([]string{validationLayer}, available)
	}

	exts := cstrings(extensions)
	lays := cstrings(layers)

	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   appName + "\x00",
			PEngineName:        "winrender\x00",
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		EnabledLayerCount:       uint32(len(lays)),
		PpEnabledLayerNames:     lays,
	}, nil, &inst)
	if err := check("create instance", ret); err != nil {
		return nil, nil, err
	}
	if err := vk.InitInstance(inst); err != nil {
		vk.DestroyInstance(inst, nil)
		return nil, nil, fmt.Errorf("vkswap: init instance: %w", err)
	}
	return inst, layers, nil
}
