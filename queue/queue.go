// Package queue provides the unbounded mailboxes actors use to talk to each
// other. Any number of goroutines may send; a queue has one consumer.
package queue

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("queue closed")

// Sender is the write side of a queue, the handle other actors hold.
type Sender[T any] interface {
	Send(v T) error
}

type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	// ready holds at most one pending wake-up for the consumer.
	ready chan struct{}
	done  chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send enqueues v without blocking. It fails only once the queue is closed.
func (q *Queue[T]) Send(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Recv blocks until a value is available, the queue is closed and drained,
// or ctx is done.
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	for {
		if v, ok, err := q.TryRecv(); ok || err != nil {
			return v, err
		}

		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv never blocks. ok is false when the queue is empty; err is ErrClosed
// when it is also closed.
func (q *Queue[T]) TryRecv() (v T, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) > 0 {
		v = q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		return v, true, nil
	}
	if q.closed {
		return v, false, ErrClosed
	}
	return v, false, nil
}

// Close disconnects the queue. Values already queued can still be received.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
