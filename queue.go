package equeue

import (
	"sync"
	"sync/atomic"
)

// Queue is a bounded-memory event scheduler. The zero Queue is not
// usable; construct one with Create or CreateInplace.
type Queue struct {
	memlock   sync.Mutex // guards arena (slab cursor) + freeHead
	queuelock sync.Mutex // guards pendingHead + breaks

	arena       []slot
	region      []byte
	slabUsed    int32
	regionSize  int32
	freeHead    int32
	pendingHead int32

	npw2          uint32
	slotMask      uint32
	maxGeneration uint32

	breaks int32

	sema  waker
	clock Clock

	dispatching atomic.Bool
	closed      atomic.Bool

	logger  Logger
	metrics *Metrics
}

// bitsFor returns the smallest number of bits that can represent the
// values [0, n), i.e. ceil(log2(n)), but never less than 1.
func bitsFor(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	var bits uint32
	for (uint32(1) << bits) < n {
		bits++
	}
	return bits
}

func newQueue(region []byte, opts []QueueOption) (*Queue, error) {
	if len(region) < wordSize*2 {
		return nil, ErrInvalidSize
	}
	cfg := resolveQueueConfig(opts)

	maxSlots := uint32(len(region)) / wordSize
	if maxSlots < 1 {
		maxSlots = 1
	}
	npw2 := bitsFor(maxSlots)
	if npw2 >= 31 {
		npw2 = 31
	}

	q := &Queue{
		arena:         make([]slot, 0, maxSlots),
		region:        region,
		regionSize:    int32(len(region)),
		freeHead:      noSlot,
		pendingHead:   noSlot,
		npw2:          npw2,
		slotMask:      (uint32(1) << npw2) - 1,
		maxGeneration: (uint32(1) << (32 - npw2)) - 1,
		clock:         cfg.clock,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
	}

	if cfg.useFDWakeup {
		if w, ok := tryFDSemaphore(); ok {
			q.sema = w
		}
	}
	if q.sema == nil {
		q.sema = newSemaphore()
	}

	return q, nil
}

// Create allocates a region of size bytes internally and returns a new
// Queue backed by it.
func Create(size int, opts ...QueueOption) (*Queue, error) {
	if size < wordSize*2 {
		return nil, wrapConstructError("region", ErrInvalidSize)
	}
	return newQueue(make([]byte, size), opts)
}

// CreateInplace uses the caller-supplied buffer as the backing region,
// instead of allocating one internally.
func CreateInplace(buffer []byte, opts ...QueueOption) (*Queue, error) {
	if len(buffer) < wordSize*2 {
		return nil, wrapConstructError("region", ErrInvalidSize)
	}
	return newQueue(buffer, opts)
}

// Destroy invokes destructors on every still-pending event and releases
// the Queue's OS resources (its semaphore). Alloc and Post silently
// fail (a false ok / the zero Handle) on a destroyed Queue, the same
// shape as any other allocation failure, rather than introducing a
// distinct error path for it.
func (q *Queue) Destroy() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	q.queuelock.Lock()
	cur := q.pendingHead
	q.pendingHead = noSlot
	q.queuelock.Unlock()

	for cur != noSlot {
		nd := &q.arena[cur]
		next := nd.next
		sib := nd.sibling
		if nd.dtor != nil {
			nd.dtor(nd.payload)
		}
		if sib != noSlot {
			// Walk the rest of this group's sibling chain too.
			for sib != noSlot {
				s := &q.arena[sib]
				nextSib := s.sibling
				if s.dtor != nil {
					s.dtor(s.payload)
				}
				sib = nextSib
			}
		}
		cur = next
	}
	return q.sema.Close()
}

// Alloc reserves size bytes of payload from the Queue's region, returning
// an *Event the caller can configure (SetDelay, SetPeriod, SetDtor) and
// Post. Returns ok=false if the region is exhausted.
func (q *Queue) Alloc(size int) (ev *Event, ok bool) {
	if q.closed.Load() {
		return nil, false
	}
	q.memlock.Lock()
	idx, ok := q.regionAlloc(size)
	q.memlock.Unlock()
	if !ok {
		q.metrics.AllocFailures.Add(1)
		q.logger.Log(Entry{Level: LevelWarn, Category: "alloc", Message: "region exhausted"})
		return nil, false
	}
	return &Event{q: q, slot: idx}, true
}

// Dealloc returns an allocated-but-never-posted Event's chunk to the free
// index, invoking its destructor first if one was set.
func (q *Queue) Dealloc(ev *Event) {
	if ev == nil || ev.q != q {
		return
	}
	q.memlock.Lock()
	defer q.memlock.Unlock()
	nd := &q.arena[ev.slot]
	if nd.dtor != nil {
		nd.dtor(nd.payload)
		nd.dtor = nil
	}
	q.regionFreeAndBump(ev.slot)
}

// Break causes one in-progress (or the next) Dispatch call to return.
func (q *Queue) Break() {
	q.queuelock.Lock()
	q.breaks++
	q.queuelock.Unlock()
	q.metrics.Breaks.Add(1)
	q.sema.Signal()
}
