//go:build linux

package equeue

import (
	"encoding/binary"
	"time"

	"golang.org/x/sys/unix"
)

// fdSemaphore is an eventfd-backed waker, the Linux counterpart to the
// portable channel-based semaphore. A single non-blocking eventfd
// serves as both the write (Signal) and read (Wait) end. Writing 1 to
// an eventfd coalesces with any unread value already present, so the
// non-blocking, coalescing Signal contract falls out for free.
type fdSemaphore struct {
	fd int
}

// newFDSemaphore creates an eventfd-backed semaphore. Returns an error if
// the kernel eventfd call fails (exhausted file descriptors, etc); callers
// should fall back to newSemaphore() in that case.
func newFDSemaphore() (*fdSemaphore, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &fdSemaphore{fd: fd}, nil
}

// tryFDSemaphore is the linux implementation of the per-OS wakeup-backend
// selection point (semaphore_other.go carries the fallback stub for
// every other platform).
func tryFDSemaphore() (waker, bool) {
	s, err := newFDSemaphore()
	if err != nil {
		return nil, false
	}
	return s, true
}

// Signal writes 1 to the eventfd counter. Non-blocking: EAGAIN (counter
// already at max) is treated as "already signalled" and ignored.
func (s *fdSemaphore) Signal() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(s.fd, buf[:])
}

// Wait blocks on the eventfd up to timeoutMs (negative forever, zero
// poll), draining the counter on wake.
func (s *fdSemaphore) Wait(timeoutMs int32) {
	if timeoutMs == 0 {
		s.drain()
		return
	}
	pfd := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	deadline := timeoutMs
	if deadline < 0 {
		deadline = -1
	}
	start := time.Now()
	for {
		remaining := deadline
		if deadline >= 0 {
			elapsed := int32(time.Since(start).Milliseconds())
			remaining = deadline - elapsed
			if remaining <= 0 {
				return
			}
		}
		n, err := unix.Poll(pfd, int(remaining))
		if err == unix.EINTR {
			continue
		}
		if n <= 0 {
			return
		}
		s.drain()
		return
	}
}

func (s *fdSemaphore) drain() {
	var buf [8]byte
	_, _ = unix.Read(s.fd, buf[:])
}

// Close closes the underlying eventfd.
func (s *fdSemaphore) Close() error {
	return unix.Close(s.fd)
}
