// Package scheduler provides the in-process timer engine that stands in
// for a platform notification scheduler: reminders are queued under an
// opaque handle, fire on a channel at their trigger time, and can be
// cancelled individually or wholesale until then.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrStopped         = errors.New("scheduler: engine stopped")
)

// Notification is a reminder queued for future delivery.
type Notification struct {
	// Handle identifies the queued reminder for cancellation and is the
	// key its history entry is recorded under.
	Handle string
	Title  string
	Body   string
	FireAt time.Time
}

type queueItem struct {
	n Notification
}

type fireQueue []queueItem

func (q fireQueue) Len() int { return len(q) }

func (q fireQueue) Less(i, j int) bool {
	return q[i].n.FireAt.Before(q[j].n.FireAt)
}

func (q fireQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *fireQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *fireQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine delivers queued notifications on C() at their fire time.
// Cancellation is lazy: cancelled handles stay in the heap and are
// skipped when they surface, so Cancel never reshuffles the queue.
type Engine struct {
	mu        sync.Mutex
	queue     fireQueue
	cancelled map[string]struct{}
	out       chan Notification
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
}

// NewEngine creates an engine whose output channel buffers bufferSize
// notifications. Delivery never blocks; notifications the consumer is
// too slow to drain are dropped and counted.
func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(fireQueue, 0),
		cancelled: make(map[string]struct{}),
		out:       make(chan Notification, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// C returns the channel fired notifications are delivered on. It is
// closed when the engine stops.
func (e *Engine) C() <-chan Notification {
	return e.out
}

// Start launches the timer loop. Calling Start twice is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop shuts the engine down and waits for the loop to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a notification to fire at fireAt and returns the
// handle it can be cancelled with.
func (e *Engine) Schedule(title, body string, fireAt time.Time) (string, error) {
	if fireAt.IsZero() {
		return "", ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return "", ErrStopped
	}

	handle := uuid.New().String()
	heap.Push(&e.queue, queueItem{n: Notification{
		Handle: handle,
		Title:  title,
		Body:   body,
		FireAt: fireAt,
	}})
	e.signalWakeup()
	return handle, nil
}

// Cancel withdraws a queued notification. Cancelling a handle that is
// unknown or has already fired is a harmless no-op.
func (e *Engine) Cancel(handle string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range e.queue {
		if item.n.Handle == handle {
			e.cancelled[handle] = struct{}{}
			break
		}
	}
}

// CancelAll withdraws every queued notification.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = e.queue[:0]
	e.cancelled = make(map[string]struct{})
	e.signalWakeup()
}

// Dropped returns how many fired notifications were discarded because
// the consumer did not keep up.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, n := range due {
				select {
				case e.out <- n:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Notification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		next := e.queue[0].n
		if _, isCancelled := e.cancelled[next.Handle]; !isCancelled {
			return next, true
		}
		heap.Pop(&e.queue)
		delete(e.cancelled, next.Handle)
	}
	return Notification{}, false
}

func (e *Engine) popDue(now time.Time) []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Notification, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].n
		if next.FireAt.After(now) {
			break
		}
		heap.Pop(&e.queue)
		if _, isCancelled := e.cancelled[next.Handle]; isCancelled {
			delete(e.cancelled, next.Handle)
			continue
		}
		out = append(out, next)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
