package stresstest

import "github.com/shirou/gopsutil/mem"

// MemoryProbe reports the memory available for allocation in bytes.
type MemoryProbe func() (uint64, error)

// HostMemory returns the memory the operating system reports as available.
func HostMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}
