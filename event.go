package equeue

// Event is a handle to an allocated-but-not-yet-posted event. Obtain one
// from Alloc, configure it with SetDelay / SetPeriod / SetDtor, then
// hand it to Post.
type Event struct {
	q    *Queue
	slot int32
}

// Payload returns the reserved payload bytes.
func (ev *Event) Payload() []byte {
	return ev.q.arena[ev.slot].payload
}

// SetDelay configures the relative delay, in milliseconds, Post will
// enqueue this event with. A negative delay means "do not post": Post
// will deallocate the event and return a handle that is already stale.
func (ev *Event) SetDelay(ms int32) {
	ev.q.arena[ev.slot].delayMs = ms
}

// SetPeriod configures the re-enqueue period, in milliseconds. A negative
// period (the default) marks the event one-shot.
func (ev *Event) SetPeriod(ms int32) {
	ev.q.arena[ev.slot].period = ms
}

// SetDtor configures a destructor, invoked on the payload immediately
// before the chunk is returned to the free index.
func (ev *Event) SetDtor(fn func(payload []byte)) {
	ev.q.arena[ev.slot].dtor = fn
}

// Post schedules ev for dispatch with callback cb, returning the Handle
// used to Cancel it. If ev's configured delay is negative, Post
// deallocates ev and returns a Handle that is a guaranteed no-op for
// Cancel.
func (q *Queue) Post(ev *Event, cb func(payload []byte)) Handle {
	if ev == nil || ev.q != q || q.closed.Load() {
		return Handle{}
	}

	q.memlock.Lock()
	nd := &q.arena[ev.slot]
	nd.cb = cb
	generation := nd.generation()
	delay := nd.delayMs
	q.memlock.Unlock()

	h := q.encodeHandle(generation, ev.slot)

	if delay < 0 {
		q.memlock.Lock()
		dn := &q.arena[ev.slot]
		dn.cb = nil
		if dn.dtor != nil {
			dn.dtor(dn.payload)
			dn.dtor = nil
		}
		q.regionFreeAndBump(ev.slot)
		q.memlock.Unlock()
		return h
	}

	q.queuelock.Lock()
	q.arena[ev.slot].target = q.clock.Tick() + uint32(delay)
	q.pendingEnqueue(ev.slot)
	q.queuelock.Unlock()

	q.metrics.Posted.Add(1)
	q.sema.Signal()
	return h
}
