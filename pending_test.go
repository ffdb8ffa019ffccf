package equeue

import "testing"

func newManualQueue(t *testing.T, size int) (*Queue, *manualClock) {
	t.Helper()
	clock := newManualClock(0)
	q, err := Create(size, WithClock(clock))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { q.Destroy() })
	return q, clock
}

func TestDispatchFIFOForDistinctTargets(t *testing.T) {
	q, clock := newManualQueue(t, 4096)
	var order []int

	a, _ := q.Alloc(0)
	a.SetDelay(5)
	q.Post(a, func([]byte) { order = append(order, 1) })

	b, _ := q.Alloc(0)
	b.SetDelay(10)
	q.Post(b, func([]byte) { order = append(order, 2) })

	c, _ := q.Alloc(0)
	c.SetDelay(15)
	q.Post(c, func([]byte) { order = append(order, 3) })

	clock.Set(20)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestDispatchLIFOForCoincidentTargets(t *testing.T) {
	q, clock := newManualQueue(t, 4096)
	var order []string

	for _, name := range []string{"A", "B", "C"} {
		n := name
		ev, _ := q.Alloc(0)
		ev.SetDelay(15)
		q.Post(ev, func([]byte) { order = append(order, n) })
	}

	clock.Set(15)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := []string{"C", "B", "A"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestDispatchPeriodicReQueues(t *testing.T) {
	q, clock := newManualQueue(t, 4096)
	var fires int

	ev, _ := q.Alloc(0)
	ev.SetDelay(10)
	ev.SetPeriod(10)
	q.Post(ev, func([]byte) { fires++ })

	clock.Set(10)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}

	clock.Set(20)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if fires != 2 {
		t.Errorf("fires = %d, want 2", fires)
	}

	clock.Set(30)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if fires != 3 {
		t.Errorf("fires = %d, want 3", fires)
	}
}

func TestCancelPendingPreventsDispatch(t *testing.T) {
	q, clock := newManualQueue(t, 4096)
	fired := false

	ev, _ := q.Alloc(0)
	ev.SetDelay(10)
	h := q.Post(ev, func([]byte) { fired = true })

	q.Cancel(h)

	clock.Set(10)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if fired {
		t.Error("cancelled pending event must not run")
	}
}

func TestCancelInFlightLetsRunningCallbackFinish(t *testing.T) {
	q, clock := newManualQueue(t, 4096)
	var h Handle
	ranFirst := false

	ev, _ := q.Alloc(0)
	ev.SetDelay(10)
	h = q.Post(ev, func([]byte) {
		ranFirst = true
		q.Cancel(h) // cancel itself while in flight
	})

	clock.Set(10)
	if err := q.Dispatch(0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !ranFirst {
		t.Error("the in-flight callback that's already running must still complete")
	}

	if _, ok := q.State(h); ok {
		t.Error("one-shot completion always frees and bumps the generation, regardless of cancel")
	}
}
