package equeue

// pending.go implements enqueue/unqueue and dequeue-for-dispatch over
// the pending queue: a target-time-ordered primary chain with
// coincident-target events grouped into a sibling chain, both realized
// with the same slot-indexed next/sibling/ref fields the free index uses
// (chain.go). All functions here run with queuelock held, taken by their
// callers (Post in event.go, Cancel in cancel.go, Dispatch in dispatch.go).

// pendingEnqueue links slot n into the pending queue at the position
// dictated by n.target, set to now()+ms beforehand by the caller. Two
// events sharing a target become a sibling group with the most recently
// enqueued at the head, so a straight head-to-tail walk of a group
// already yields last-inserted-first order. Building the group with
// newest-at-head makes a separate reversal pass unnecessary.
func (q *Queue) pendingEnqueue(n int32) {
	nd := &q.arena[n]
	nd.queued = true

	var pred int32 = noSlot
	cur := q.pendingHead
	for cur != noSlot && signedBefore(q.arena[cur].target, nd.target) {
		pred = cur
		cur = q.arena[cur].next
	}

	if cur != noSlot && q.arena[cur].target == nd.target {
		// Coincident target: n becomes the new primary for this group,
		// the old primary (with whatever sibling chain it already had)
		// becomes n's sibling.
		nd.next = q.arena[cur].next
		nd.sibling = cur
		q.arena[cur].next = noSlot
		q.arena[cur].ref = backRef{kind: refSibling, slot: n}
		if nd.next != noSlot {
			q.arena[nd.next].ref = backRef{kind: refNext, slot: n}
		}
	} else {
		nd.next = cur
		nd.sibling = noSlot
		if cur != noSlot {
			q.arena[cur].ref = backRef{kind: refNext, slot: n}
		}
	}

	if pred == noSlot {
		q.pendingHead = n
		nd.ref = backRef{kind: refHead}
	} else {
		q.arena[pred].next = n
		nd.ref = backRef{kind: refNext, slot: pred}
	}
}

// pendingUnqueue removes slot n from the pending queue in O(1), via
// chainUnlink, regardless of whether n is currently a group primary or an
// interior sibling.
func (q *Queue) pendingUnqueue(n int32) {
	q.chainUnlink(n, &q.pendingHead)
	q.arena[n].queued = false
}

// dequeueDue detaches every primary group whose target is due (<= now)
// and concatenates them, group by group, into a flat list threaded
// through next, in group order, and within a group in the
// already-LIFO sibling order described above. Returns the head of that
// list (noSlot if nothing was due) and, via deadlineMs, the relative
// time until the next still-pending target. If the queue is left empty,
// deadlineMs is 0 and ok is false.
func (q *Queue) dequeueDue(now uint32) (dispatchHead int32, deadlineMs int32, ok bool) {
	dispatchHead = noSlot
	var tail int32 = noSlot

	for q.pendingHead != noSlot && !signedBefore(now, q.arena[q.pendingHead].target) {
		group := q.pendingHead
		q.pendingHead = q.arena[group].next
		q.arena[group].queued = false
		if q.pendingHead != noSlot {
			q.arena[q.pendingHead].ref = backRef{kind: refHead}
		}

		if dispatchHead == noSlot {
			dispatchHead = group
		} else {
			q.arena[tail].next = group
		}

		// Re-thread this group's sibling chain into next links, so the
		// whole dispatch list is a single flat chain once every due group
		// has been appended; sibling is no longer needed past this point.
		cur := group
		for q.arena[cur].sibling != noSlot {
			nxt := q.arena[cur].sibling
			q.arena[cur].sibling = noSlot
			q.arena[cur].next = nxt
			q.arena[nxt].queued = false
			cur = nxt
		}
		q.arena[cur].next = noSlot
		tail = cur
	}

	if q.pendingHead == noSlot {
		return dispatchHead, 0, false
	}
	return dispatchHead, signedDiff(q.arena[q.pendingHead].target, now), true
}
