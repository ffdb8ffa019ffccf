// Package equeue provides a flexible, bounded-memory event queue suitable
// for embedded and host environments alike: a scheduler that accepts
// user-supplied callbacks with optional delay and periodicity, stores them
// in a fixed-capacity region backed by a slab-with-free-lists allocator,
// dispatches them at their scheduled times from a single dispatch thread,
// and supports safe cancellation by opaque handle from arbitrary
// goroutines.
//
// # Architecture
//
// A [Queue] owns a bounded arena of event slots (the "backing region"),
// a size-sorted free-chunk index for O(1) same-size reuse, and a
// target-time-ordered pending list with coincident-time sibling chaining
// for O(1) unlink ([Queue.Cancel], the dispatcher's drain step). One
// goroutine at a time may call [Queue.Dispatch]; any number of goroutines
// may concurrently [Queue.Alloc], [Queue.Post] and [Queue.Cancel].
//
// # Handles
//
// [Handle] packs a generation counter and an arena slot index into a
// single (generation, offset) value, wrapped in a type that can't be
// decoded without the [Queue] it came from. Cancelling a stale handle
// (one whose generation has since moved on) is always a silent no-op;
// racing against dispatch cannot be resolved any other way without
// blocking the canceller on the dispatcher.
//
// # Thread safety
//
//   - [Queue.Alloc], [Queue.Dealloc], [Queue.Post], [Queue.Cancel] and
//     [Queue.Break] are safe to call from any goroutine, concurrently with
//     each other and with [Queue.Dispatch].
//   - [Queue.Dispatch] must not be called concurrently with itself on the
//     same Queue; a second concurrent call returns
//     [ErrDispatchAlreadyRunning].
//   - User callbacks run on the dispatcher goroutine. A callback that
//     blocks stalls dispatch; this is by contract, not a defect.
//
// # Usage
//
//	q, err := equeue.Create(4096)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Destroy()
//
//	h := q.CallIn(100, func() { // fires in 100ms
//	    fmt.Println("fired")
//	})
//	_ = h
//
//	go q.Dispatch(-1) // dispatch until Break
//	// ...
//	q.Break()
package equeue
