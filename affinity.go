//go:build linux

package tickpool

import (
	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling OS thread to a single CPU.
// The caller should hold runtime.LockOSThread for the pin to stick.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
