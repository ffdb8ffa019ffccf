package equeue

// chain.go implements the O(1) unlink shared by both intrusive,
// ordered-primary-plus-sibling-chain structures this module uses: the
// free-chunk index (ordered by size, used from alloc.go) and the pending
// queue (ordered by target, used from pending.go). Both are the same
// "primary chain + sibling chain + ref back-pointer" shape; factoring the
// shared unlink logic here keeps that symmetry visible in the code
// instead of duplicating it.

// chainUnlink removes slot n from whichever structure it is linked into
// (identified by headPtr, the caller's *freeHead or *pendingHead),
// promoting n's sibling (if any) into n's position, or splicing n out of
// the primary chain otherwise. Returns the slot that now occupies n's old
// position, or noSlot if the structure is left without one there.
//
// This is the generic form of the pending queue's unqueue operation; the
// allocator reuses it to pop a primary (with sibling promotion) from the
// free index.
func (q *Queue) chainUnlink(n int32, headPtr *int32) int32 {
	nd := &q.arena[n]
	var successor int32
	if nd.sibling != noSlot {
		successor = nd.sibling
		q.arena[successor].next = nd.next
		q.arena[successor].ref = nd.ref
		if nd.next != noSlot {
			q.arena[nd.next].ref = backRef{kind: refNext, slot: successor}
		}
	} else {
		successor = nd.next
		if successor != noSlot {
			q.arena[successor].ref = nd.ref
		}
	}
	q.applyRef(nd.ref, successor, headPtr)
	nd.next = noSlot
	nd.sibling = noSlot
	nd.ref = backRef{}
	return successor
}

// applyRef redirects whoever held a forward reference to the
// just-unlinked (or just-displaced) slot so it now points at target
// instead (or at nothing, if target is noSlot).
func (q *Queue) applyRef(ref backRef, target int32, headPtr *int32) {
	switch ref.kind {
	case refHead:
		*headPtr = target
	case refNext:
		q.arena[ref.slot].next = target
	case refSibling:
		q.arena[ref.slot].sibling = target
	}
}
