package tickpool

import "runtime"

// goroutineID returns the current goroutine's ID.
//
// Go has no public goroutine identity; the ID is read from the header
// of the current stack trace ("goroutine NNN [running]:"). It is only
// used to recognise the owner goroutine, never for scheduling.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
