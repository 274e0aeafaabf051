package model

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

type result struct {
	event ResponseEvent
	err   error
}

// ResponseStream is the consumer side of a reply: an ordered, bounded queue
// of events fed by exactly one producer goroutine. It is meant for a single
// consumer; Close may be called from any goroutine.
type ResponseStream struct {
	ch        <-chan result
	done      chan struct{}
	closeOnce sync.Once
	finished  bool

	cur ResponseEvent
	err error
}

// StreamSender is the producer side of a ResponseStream.
type StreamSender struct {
	ch        chan<- result
	done      <-chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewResponseStream creates a connected consumer/producer pair whose queue
// holds up to capacity undelivered events. Capacities below 1 are raised to 1.
func NewResponseStream(capacity int) (*ResponseStream, *StreamSender) {
	if capacity < 1 {
		capacity = 1
	}
	ch := make(chan result, capacity)
	done := make(chan struct{})
	return &ResponseStream{ch: ch, done: done}, &StreamSender{ch: ch, done: done}
}

// Recv returns the next event. It blocks until an event arrives, the producer
// ends the stream (io.EOF), the producer reports an error (that error, then
// io.EOF on later calls), or ctx is done.
func (s *ResponseStream) Recv(ctx context.Context) (ResponseEvent, error) {
	if s.finished {
		return nil, io.EOF
	}
	select {
	case <-s.done:
		return nil, ErrStreamClosed
	default:
	}

	select {
	case r, ok := <-s.ch:
		if !ok {
			s.finished = true
			return nil, io.EOF
		}
		if r.err != nil {
			s.finished = true
			return nil, r.err
		}
		return r.event, nil
	case <-s.done:
		return nil, ErrStreamClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Next advances to the next event, reporting false at the end of the stream
// or on error. Check Err afterwards.
func (s *ResponseStream) Next(ctx context.Context) bool {
	ev, err := s.Recv(ctx)
	if err != nil {
		s.cur = nil
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return false
	}
	s.cur = ev
	return true
}

// Current returns the event loaded by the last successful Next.
func (s *ResponseStream) Current() ResponseEvent { return s.cur }

// Err returns the error that stopped Next, or nil at a clean end.
func (s *ResponseStream) Err() error { return s.err }

// All yields the remaining events. A failure is yielded once as (nil, err)
// and ends the sequence.
func (s *ResponseStream) All(ctx context.Context) iter.Seq2[ResponseEvent, error] {
	return func(yield func(ResponseEvent, error) bool) {
		for {
			ev, err := s.Recv(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Close releases the consumer side. Pending and future Send calls return
// ErrStreamClosed so the producer can stop. Close is idempotent.
func (s *ResponseStream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Send enqueues ev, blocking while the queue is full. It returns
// ErrStreamClosed once the consumer closed the stream or after the sender was
// closed, and ctx.Err() when ctx is done first.
func (s *StreamSender) Send(ctx context.Context, ev ResponseEvent) error {
	return s.push(ctx, result{event: ev})
}

// Fail enqueues err as the final item the consumer will observe.
func (s *StreamSender) Fail(ctx context.Context, err error) error {
	return s.push(ctx, result{err: err})
}

func (s *StreamSender) push(ctx context.Context, r result) error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}

	select {
	case s.ch <- r:
		return nil
	case <-s.done:
		return ErrStreamClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream. Events already queued are still delivered. Close is
// idempotent.
func (s *StreamSender) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.ch)
	})
}
