package equeue

import "time"

// waker is the contract both semaphore implementations satisfy, so Queue
// can hold either the portable channel-based semaphore or the
// eventfd-backed one (semaphore_linux.go) behind one field.
type waker interface {
	Signal()
	Wait(timeoutMs int32)
	Close() error
}

// semaphore is the default counting-semaphore collaborator: Signal is
// non-blocking and may coalesce with a pending signal, Wait blocks for up
// to timeoutMs (negative means forever, zero means poll), and returns
// regardless of whether it woke due to a signal or a timeout. Callers
// cannot and must not distinguish the two.
//
// The default implementation is a capacity-1 channel: a single pending
// wakeup is enough, since the dispatcher always re-examines the full
// queue state on wake rather than consuming one "unit" per event.
type semaphore struct {
	wake chan struct{}
}

func newSemaphore() *semaphore {
	return &semaphore{wake: make(chan struct{}, 1)}
}

// Signal requests that a blocked (or future) Wait return. Non-blocking;
// a pending, unconsumed signal is coalesced with this one.
func (s *semaphore) Signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until Signal is called or timeoutMs elapses.
// timeoutMs < 0 waits indefinitely; timeoutMs == 0 polls without blocking.
func (s *semaphore) Wait(timeoutMs int32) {
	if timeoutMs < 0 {
		<-s.wake
		return
	}
	if timeoutMs == 0 {
		select {
		case <-s.wake:
		default:
		}
		return
	}
	t := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer t.Stop()
	select {
	case <-s.wake:
	case <-t.C:
	}
}

// Close releases resources held by the semaphore. The channel-based
// implementation holds none; Close is a no-op, present only to satisfy
// waker alongside the eventfd-backed implementation.
func (s *semaphore) Close() error {
	return nil
}
