//go:build !linux

package equeue

// tryFDSemaphore reports that no OS-native wakeup primitive is wired on
// this platform. Every non-Linux build falls back to the portable
// channel-based semaphore.
func tryFDSemaphore() (waker, bool) {
	return nil, false
}
