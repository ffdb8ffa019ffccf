package equeue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocDeallocReusesFreedChunk(t *testing.T) {
	q, err := Create(4096)
	require.NoError(t, err)
	defer q.Destroy()

	ev1, ok := q.Alloc(32)
	require.True(t, ok)
	slot1 := ev1.slot
	q.Dealloc(ev1)

	ev2, ok := q.Alloc(32)
	require.True(t, ok)
	require.Equal(t, slot1, ev2.slot, "same-size alloc after dealloc should reuse the freed slot")
}

func TestDeallocBumpsGenerationSoStaleHandleIsANoOp(t *testing.T) {
	q, err := Create(4096)
	require.NoError(t, err)
	defer q.Destroy()

	ev, ok := q.Alloc(16)
	require.True(t, ok)
	ev.SetDelay(1000)
	h := q.Post(ev, func([]byte) {})

	q.Cancel(h)
	_, ok = q.State(h)
	require.False(t, ok, "handle must be stale once its event is cancelled and freed")

	// Cancel again: must not panic or double-free.
	q.Cancel(h)
}

func TestAllocReturnsFalseWhenRegionExhausted(t *testing.T) {
	q, err := Create(64)
	require.NoError(t, err)
	defer q.Destroy()

	var allocs []*Event
	for {
		ev, ok := q.Alloc(8)
		if !ok {
			break
		}
		allocs = append(allocs, ev)
	}
	require.NotEmpty(t, allocs, "a 64-byte region should fit at least one 8-byte chunk")
	require.Equal(t, int64(1), q.metrics.AllocFailures.Load())
}

func TestRoundUpWord(t *testing.T) {
	cases := map[int]int32{0: 0, 1: 8, 7: 8, 8: 8, 9: 16}
	for in, want := range cases {
		if got := roundUpWord(in); got != want {
			t.Errorf("roundUpWord(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRegionFreeMergesSameSizeSiblings(t *testing.T) {
	q, err := Create(4096)
	require.NoError(t, err)
	defer q.Destroy()

	a, _ := q.Alloc(16)
	b, _ := q.Alloc(16)
	c, _ := q.Alloc(16)

	q.Dealloc(a)
	q.Dealloc(b)
	q.Dealloc(c)

	// Three same-size frees should collapse into one size-class node with
	// two siblings, not three distinct free-index entries.
	count := 0
	for cur := q.freeHead; cur != noSlot; cur = q.arena[cur].next {
		count++
	}
	require.Equal(t, 1, count, "same-size frees should merge into a single free-index node")
}
