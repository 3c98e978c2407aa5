//go:build !linux

package tickpool

// PinToCPU is a no-op outside Linux; workers stay locked to their OS
// thread but the OS decides where that thread runs.
func PinToCPU(int) error { return nil }
