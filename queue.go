package callguard

import (
	"sort"
	"time"
)

// outcome is the settled result of one queued request.
type outcome struct {
	resp *Response
	err  error
}

// queueItem couples a pending request with its result channel. The channel is
// buffered so the drain loop never blocks on an abandoned caller.
type queueItem struct {
	req        *Request
	enqueuedAt time.Time
	seq        uint64
	done       chan outcome
}

// requestQueue is a bounded buffer ordered by (priority desc, enqueuedAt
// asc). It is not synchronized; the owning Client guards all access together
// with its single-drain-loop flag.
type requestQueue struct {
	max   int
	seq   uint64
	items []*queueItem
}

func newRequestQueue(max int) *requestQueue {
	return &requestQueue{max: max}
}

// push appends the item and restores the total order. Returns ErrQueueFull
// when the queue is at capacity.
func (q *requestQueue) push(item *queueItem) error {
	if len(q.items) >= q.max {
		return ErrQueueFull
	}

	q.seq++
	item.seq = q.seq
	q.items = append(q.items, item)

	sort.Slice(q.items, func(i, j int) bool {
		a, b := q.items[i], q.items[j]
		if a.req.Priority != b.req.Priority {
			return a.req.Priority > b.req.Priority
		}
		if !a.enqueuedAt.Equal(b.enqueuedAt) {
			return a.enqueuedAt.Before(b.enqueuedAt)
		}
		return a.seq < b.seq
	})

	return nil
}

// pop removes and returns the head of the queue.
func (q *requestQueue) pop() (*queueItem, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return item, true
}

// drain empties the queue and returns everything that was pending.
func (q *requestQueue) drain() []*queueItem {
	items := q.items
	q.items = nil
	return items
}

func (q *requestQueue) len() int {
	return len(q.items)
}
