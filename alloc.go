package equeue

// alloc.go implements the bounded slab-with-free-lists allocator.
// regionAlloc, regionFree and regionFreeAndBump must be called with
// memlock held (taken by their callers: Alloc and Dealloc in queue.go,
// Post, Cancel and the dispatcher); they never touch queuelock, so the
// two locks are never held simultaneously.

// roundUpWord rounds n up to the next multiple of wordSize ("round size
// plus header size up to a machine-word multiple"). The header itself
// lives out-of-band (the slots array), so only wordSize of overhead
// (not a full header's worth) is charged per chunk against the region
// budget, by regionAlloc.
func roundUpWord(n int) int32 {
	r := (n + wordSize - 1) / wordSize * wordSize
	return int32(r)
}

// regionAlloc satisfies a request for size bytes of payload from the free
// index first (first-fit on the size-sorted list, equivalent to best-fit
// over distinct sizes), falling back to the slab. Returns noSlot, false
// if the region is exhausted.
func (q *Queue) regionAlloc(size int) (int32, bool) {
	need := roundUpWord(size)

	cur := q.freeHead
	for cur != noSlot && q.arena[cur].size < need {
		cur = q.arena[cur].next
	}
	if cur != noSlot {
		q.chainUnlink(cur, &q.freeHead)
		nd := &q.arena[cur]
		// Generation was already advanced by whoever freed this slot
		// (regionFreeAndBump); reused as-is. Reset the configurable
		// fields a fresh event starts with.
		nd.cb, nd.dtor = nil, nil
		nd.period = -1
		nd.delayMs = 0
		return cur, true
	}

	cost := need + wordSize
	if q.slabUsed+cost > q.regionSize || len(q.arena) >= cap(q.arena) {
		return noSlot, false
	}
	off := q.slabUsed
	q.slabUsed += cost
	idx := int32(len(q.arena))
	q.arena = append(q.arena, slot{
		size:    need,
		id:      1,
		period:  -1,
		next:    noSlot,
		sibling: noSlot,
		payload: q.region[off : off+need : off+need],
	})
	return idx, true
}

// regionFree returns slot n to the free index, merging it into the
// sibling chain of an existing same-size node or inserting it as a new
// node ordered by size.
func (q *Queue) regionFree(n int32) {
	nd := &q.arena[n]
	size := nd.size

	var pred int32 = noSlot
	cur := q.freeHead
	for cur != noSlot && q.arena[cur].size < size {
		pred = cur
		cur = q.arena[cur].next
	}

	if cur != noSlot && q.arena[cur].size == size {
		// Existing node stays the primary; n joins the head of its
		// sibling chain, preserving the primary's own next.
		nd.sibling = q.arena[cur].sibling
		nd.ref = backRef{kind: refSibling, slot: cur}
		nd.next = noSlot
		if nd.sibling != noSlot {
			q.arena[nd.sibling].ref = backRef{kind: refSibling, slot: n}
		}
		q.arena[cur].sibling = n
		return
	}

	nd.next = cur
	nd.sibling = noSlot
	if cur != noSlot {
		q.arena[cur].ref = backRef{kind: refNext, slot: n}
	}
	if pred == noSlot {
		q.freeHead = n
		nd.ref = backRef{kind: refHead}
	} else {
		q.arena[pred].next = n
		nd.ref = backRef{kind: refNext, slot: pred}
	}
}

// regionFreeAndBump advances n's generation and then frees it. This is
// the operation performed wherever a posted event's lifetime ends
// (cancel of a pending event, completion of a one-shot dispatch, and
// Post's immediate-dealloc path for a negative target): advancing the
// generation here, rather than on reuse, is what makes a Handle captured
// before the free reliably stale afterward, including in the
// never-enqueued Post case where no separate membership check is made.
func (q *Queue) regionFreeAndBump(n int32) {
	nd := &q.arena[n]
	nd.id = int32(incid(nd.generation(), q.maxGeneration))
	q.regionFree(n)
}
