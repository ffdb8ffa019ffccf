package equeue

// Dispatch runs the dispatch loop until ms milliseconds have
// elapsed, or forever if ms is negative, returning whenever Break has been
// called (at most once per Break call) or the bounded bugdet is spent.
// Only one goroutine may Dispatch a given Queue at a time; a second,
// concurrent call returns ErrDispatchAlreadyRunning immediately.
func (q *Queue) Dispatch(ms int32) error {
	if !q.dispatching.CompareAndSwap(false, true) {
		return ErrDispatchAlreadyRunning
	}
	defer q.dispatching.Store(false)

	bounded := ms >= 0
	var deadlineAbs uint32
	if bounded {
		deadlineAbs = q.clock.Tick() + uint32(ms)
	}

	for {
		now := q.clock.Tick()

		q.queuelock.Lock()
		dispatchHead, deadlineRel, havePending := q.dequeueDue(now)
		for cur := dispatchHead; cur != noSlot; cur = q.arena[cur].next {
			nd := &q.arena[cur]
			nd.id = -nd.id
		}
		q.queuelock.Unlock()

		q.runDispatchList(dispatchHead)

		if bounded {
			now = q.clock.Tick()
			if !signedBefore(now, deadlineAbs) {
				return nil
			}
		}

		waitMs := int32(-1)
		if havePending {
			waitMs = deadlineRel
			if waitMs < 0 {
				waitMs = 0
			}
		}
		if bounded {
			remaining := signedDiff(deadlineAbs, q.clock.Tick())
			if remaining <= 0 {
				return nil
			}
			if waitMs < 0 || waitMs > remaining {
				waitMs = remaining
			}
		}

		q.sema.Wait(waitMs)

		q.queuelock.Lock()
		if q.breaks > 0 {
			q.breaks--
			q.queuelock.Unlock()
			return nil
		}
		q.queuelock.Unlock()
	}
}

// runDispatchList executes every in-flight event in dispatchHead's
// (already detached) next-chain, in order, re-enqueuing periodic events
// or freeing one-shot ones once their callback returns. The full list
// of slot indices is captured before any callback runs, because
// re-enqueuing or freeing a slot overwrites its next field, the very
// field used to walk the rest of this list.
func (q *Queue) runDispatchList(dispatchHead int32) {
	var list []int32
	for cur := dispatchHead; cur != noSlot; {
		nxt := q.arena[cur].next
		list = append(list, cur)
		cur = nxt
	}

	for _, idx := range list {
		nd := &q.arena[idx]
		cb := nd.cb // local read: Cancel may have cleared this concurrently
		if cb != nil {
			cb(nd.payload)
			q.metrics.Dispatched.Add(1)
		}

		if nd.period >= 0 {
			q.queuelock.Lock()
			nd.id = int32(nd.generation())
			nd.target = q.clock.Tick() + uint32(nd.period)
			q.pendingEnqueue(idx)
			q.queuelock.Unlock()
			q.sema.Signal()
			continue
		}

		q.memlock.Lock()
		if nd.dtor != nil {
			nd.dtor(nd.payload)
			nd.dtor = nil
		}
		q.regionFreeAndBump(idx)
		q.memlock.Unlock()
	}
}
