package equeue

// Cancel cancels a previously posted event. It is race-free against a
// concurrent Dispatch and always idempotent:
//
//   - If the event is still pending, it is unqueued and its chunk freed;
//     its callback will not run.
//   - If the event has been taken in-flight by the dispatcher, its
//     callback and periodic re-enqueue are suppressed. The callback
//     itself still runs if the dispatcher already read a non-nil cb
//     before this call won the race; the dispatcher frees the
//     allocation once it finishes with it, not Cancel.
//   - If the handle is stale (already completed, reused, or from a
//     different Queue) this is a silent no-op.
//
// Generation advance for the in-flight branch is intentionally deferred
// to the dispatcher's own completion step, not performed here. See
// DESIGN.md's Open Question decisions for why that asymmetry is kept
// rather than "fixed".
func (q *Queue) Cancel(h Handle) {
	if h.q != q {
		return
	}
	generation, idx, ok := h.decode()
	if !ok {
		return
	}

	q.queuelock.Lock()
	nd := &q.arena[idx]
	switch {
	case nd.id == int32(generation):
		// Pending: still in the queue, generation matches exactly.
		q.pendingUnqueue(idx)
		q.queuelock.Unlock()

		q.memlock.Lock()
		if nd.dtor != nil {
			nd.dtor(nd.payload)
			nd.dtor = nil
		}
		q.regionFreeAndBump(idx)
		q.memlock.Unlock()

		q.metrics.Cancelled.Add(1)
		q.logger.Log(Entry{Level: LevelInfo, Category: "cancel", Handle: h.value, Message: "cancelled pending event"})

	case nd.id == -int32(generation):
		// In-flight: suppress callback and periodic re-enqueue; leave
		// deallocation to the dispatcher.
		nd.cb = nil
		nd.period = -1
		q.queuelock.Unlock()

		q.metrics.Cancelled.Add(1)
		q.logger.Log(Entry{Level: LevelInfo, Category: "cancel", Handle: h.value, Message: "suppressed in-flight event"})

	default:
		// Stale handle: already completed and possibly reused.
		q.queuelock.Unlock()
		q.logger.Log(Entry{Level: LevelDebug, Category: "cancel", Handle: h.value, Message: "stale handle, no-op"})
	}
}
