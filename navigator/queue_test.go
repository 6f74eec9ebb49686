package navigator

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestQueue(t *testing.T) {
	var wakes atomic.Int32
	q := NewQueue(func() { wakes.Add(1) })

	var order []int
	q.Defer(0, func() { order = append(order, 1) })
	q.Defer(0, func() { order = append(order, 2) })

	if len(order) != 0 {
		t.Fatal("callbacks ran before Run")
	}
	if n := q.Run(); n != 2 {
		t.Errorf("Run() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("callbacks ran in order %v", order)
	}
	if wakes.Load() != 2 {
		t.Errorf("wake called %d times, want 2", wakes.Load())
	}
	if n := q.Run(); n != 0 {
		t.Errorf("second Run() = %d, want 0", n)
	}
}

func TestQueueDelay(t *testing.T) {
	woken := make(chan struct{}, 1)
	q := NewQueue(func() { woken <- struct{}{} })

	ran := false
	q.Defer(10*time.Millisecond, func() { ran = true })
	if q.Run() != 0 {
		t.Fatal("delayed callback was due immediately")
	}

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("queue never woke")
	}
	q.Run()
	if !ran {
		t.Error("delayed callback did not run")
	}
}

func TestQueueDrivesDragDebounce(t *testing.T) {
	q := NewQueue(nil)
	d := dragTracker{debounce: 0, after: q.Defer}

	d.press()
	d.move()
	d.release()
	if !d.active() {
		t.Fatal("drag ended before the queue ran")
	}
	q.Run()
	if d.active() {
		t.Error("drag still active after the queue ran")
	}
}
