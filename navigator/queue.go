package navigator

import (
	"sync"
	"time"
)

// Queue is a Deferrer for frontends that own a polling event loop.
// Callbacks are held until the loop calls Run, so they execute on the loop's
// goroutine. wake, if set, is called whenever a callback becomes due.
type Queue struct {
	wake func()

	m     sync.Mutex
	tasks []func()
}

func NewQueue(wake func()) *Queue {
	return &Queue{wake: wake}
}

// Defer queues f to run on the next Run after d has passed.
func (q *Queue) Defer(d time.Duration, f func()) {
	if d <= 0 {
		q.push(f)
		return
	}
	time.AfterFunc(d, func() { q.push(f) })
}

func (q *Queue) push(f func()) {
	q.m.Lock()
	q.tasks = append(q.tasks, f)
	q.m.Unlock()

	if q.wake != nil {
		q.wake()
	}
}

// Run executes due callbacks in the order they became due and returns how many ran.
func (q *Queue) Run() int {
	q.m.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.m.Unlock()

	for _, f := range tasks {
		f()
	}
	return len(tasks)
}
