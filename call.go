package equeue

// call.go implements the convenience wrappers: Call, CallIn and
// CallEvery all reduce to Alloc+Post of a single callback-shaped
// payload, trading a C-style payload pointer for a closure captured
// directly in the slot's cb field.

// Call schedules fn to run on the next dispatch pass, as soon as
// possible (delay 0). Returns the zero Handle if the region is
// exhausted.
func (q *Queue) Call(fn func()) Handle {
	return q.CallIn(0, fn)
}

// CallIn schedules fn to run once, after delayMs milliseconds. Returns
// the zero Handle if the region is exhausted.
func (q *Queue) CallIn(delayMs int32, fn func()) Handle {
	ev, ok := q.Alloc(0)
	if !ok {
		return Handle{}
	}
	ev.SetDelay(delayMs)
	return q.Post(ev, func([]byte) { fn() })
}

// CallEvery schedules fn to run repeatedly, first after delayMs
// milliseconds and then every periodMs thereafter, until cancelled.
// Returns the zero Handle if the region is exhausted.
func (q *Queue) CallEvery(delayMs, periodMs int32, fn func()) Handle {
	ev, ok := q.Alloc(0)
	if !ok {
		return Handle{}
	}
	ev.SetDelay(delayMs)
	ev.SetPeriod(periodMs)
	return q.Post(ev, func([]byte) { fn() })
}
