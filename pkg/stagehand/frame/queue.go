package frame

import (
	"slices"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

type request struct {
	handle scheduler.FrameHandle
	fn     func(now time.Duration)
}

// Queue holds pending frame requests and unload hooks. Frame sources embed it
// and call Fire once per displayed frame. The zero value is ready to use.
// A Queue is not safe for concurrent use.
type Queue struct {
	next    scheduler.FrameHandle
	pending []request

	hookSeq   uint64
	hookOrder []uint64
	hooks     map[uint64]func()
}

// RequestFrame queues fn for the next Fire.
func (q *Queue) RequestFrame(fn func(now time.Duration)) scheduler.FrameHandle {
	q.next++
	q.pending = append(q.pending, request{handle: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a queued request.
func (q *Queue) CancelFrame(handle scheduler.FrameHandle) {
	for i, r := range q.pending {
		if r.handle == handle {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Fire runs the requests queued before the call. Requests made while firing
// wait for the next Fire. It returns the number of requests fired.
func (q *Queue) Fire(now time.Duration) int {
	queued := q.pending
	q.pending = nil
	for _, r := range queued {
		r.fn(now)
	}
	return len(queued)
}

// Pending returns the number of queued requests.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// OnUnload registers fn to run on Unload. The returned func removes it.
func (q *Queue) OnUnload(fn func()) func() {
	if q.hooks == nil {
		q.hooks = make(map[uint64]func())
	}
	q.hookSeq++
	id := q.hookSeq
	q.hooks[id] = fn
	q.hookOrder = append(q.hookOrder, id)
	return func() {
		delete(q.hooks, id)
		if i := slices.Index(q.hookOrder, id); i >= 0 {
			q.hookOrder = slices.Delete(q.hookOrder, i, i+1)
		}
	}
}

// Unload runs and clears the registered unload hooks in registration order.
func (q *Queue) Unload() {
	order := q.hookOrder
	q.hookOrder = nil
	for _, id := range order {
		if fn, ok := q.hooks[id]; ok {
			delete(q.hooks, id)
			fn()
		}
	}
}
