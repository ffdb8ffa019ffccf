package equeue

// wordSize is the accounting granularity chunks are rounded up to
// ("round size plus header size up to a machine-word multiple").
// Headers live out-of-band, in the parallel slots array below, rather
// than inline in the byte region; wordSize is still
// charged per chunk against the region budget, preserving capacity
// accounting parity with an inline-header design.
const wordSize = 8

// refKind tags what a backRef points at, standing in for the intrusive
// "pointer to pointer" trick that a safe language can't express
// directly: a backRef names either the head of the list the slot is in
// (the pending list or the free index), or a field (next or sibling) of
// another slot.
type refKind uint8

const (
	refNone refKind = iota
	refHead
	refNext
	refSibling
)

// backRef identifies whoever holds a forward reference to a given slot,
// so that slot can be unlinked in O(1) without a prior walk.
type backRef struct {
	kind refKind
	slot int32
}

// noSlot is the "no slot" sentinel, playing the role of a null pointer
// for next/sibling/ref.slot.
const noSlot int32 = -1

// slot is one arena entry: the out-of-band header for one event, plus the
// payload bytes it was allocated with. A live slot is pending, in-flight,
// or neither (free-list resident, or allocated and not yet posted). The
// state is read from two stored fields, not from list reachability: a
// negative id marks in-flight, and queued marks pending.
type slot struct {
	size int32 // payload size in bytes, rounded up to wordSize

	// id is the generation counter. Positive: idle (free-list resident) or
	// pending. Negative: in-flight, with magnitude equal to the last idle
	// generation ("in-flight encoding by id negation").
	id int32

	// delayMs is the relative delay configured before Post (a pre-post
	// overload of "target"); negative means "do not post" (Post
	// deallocates instead of enqueuing). target is the absolute tick
	// computed from delayMs once the event is enqueued. Splitting these
	// avoids reinterpreting a signed delay as an unsigned absolute tick in
	// the same field.
	delayMs int32
	target  uint32
	period  int32 // re-enqueue period in ms; -1 means one-shot

	cb   func(payload []byte)
	dtor func(payload []byte)

	next    int32 // pending/free primary chain, or noSlot
	sibling int32 // coincident-target / same-size sibling chain, or noSlot
	ref     backRef

	// queued is true exactly while n is linked into the pending queue.
	// The free index and pending queue share the next/sibling/ref fields,
	// so membership in one versus the other can't be recovered by
	// inspecting them alone; this bit is the cheapest way to make State
	// accurate without a walk from pendingHead.
	queued bool

	payload []byte
}

// State reports whether a slot is idle, pending, or in-flight. In-flight
// is read from the sign of id ("in-flight encoding by id negation", the
// mechanism that makes the cancel/dispatch race resolvable from a
// single read under queuelock); idle vs. pending comes from queued,
// since both states leave id positive.
type State int

const (
	// StateIdle means the slot is neither pending nor in-flight: allocated
	// but not yet posted, or already completed and free-list resident.
	StateIdle State = iota
	// StatePending means the slot is linked into the pending queue.
	StatePending
	// StateInFlight means the slot has been dequeued for dispatch and its
	// callback is pending or executing.
	StateInFlight
)

func (s *slot) state() State {
	switch {
	case s.id < 0:
		return StateInFlight
	case s.queued:
		return StatePending
	default:
		return StateIdle
	}
}

// generation returns the slot's current generation, regardless of
// in-flight sign.
func (s *slot) generation() uint32 {
	if s.id < 0 {
		return uint32(-s.id)
	}
	return uint32(s.id)
}
