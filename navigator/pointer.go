package navigator

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerEnter
	PointerLeave
	PointerDown
	PointerUp
	// Click is a primary button click, delivered after PointerUp.
	Click
	// ContextClick is a secondary button click.
	ContextClick
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case Click:
		return "click"
	case ContextClick:
		return "contextclick"
	}
	return "unknown"
}

// PointerEvent is a pointer event in viewport pixels, origin top left.
type PointerEvent struct {
	Kind PointerKind
	Pos  mgl64.Vec2
}

// PointerSource is a stream of pointer events.
type PointerSource interface {
	Subscribe(func(PointerEvent)) (unsubscribe func())
}

// PointerFeed is a PointerSource that frontends publish into.
type PointerFeed struct {
	m      sync.Mutex
	nextID int
	subs   map[int]func(PointerEvent)
	order  []int
}

var _ PointerSource = &PointerFeed{}

func NewPointerFeed() *PointerFeed {
	return &PointerFeed{
		subs: make(map[int]func(PointerEvent)),
	}
}

// Subscribe registers fn. The returned function removes it and is safe to call
// more than once.
func (f *PointerFeed) Subscribe(fn func(PointerEvent)) (unsubscribe func()) {
	f.m.Lock()
	defer f.m.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.order = append(f.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.m.Lock()
			defer f.m.Unlock()
			delete(f.subs, id)
			for i, o := range f.order {
				if o == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to every subscriber in subscription order.
func (f *PointerFeed) Publish(ev PointerEvent) {
	f.m.Lock()
	fns := make([]func(PointerEvent), 0, len(f.order))
	for _, id := range f.order {
		fns = append(fns, f.subs[id])
	}
	f.m.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Deferrer runs f once after d. Frontends use it to bring the callback back
// onto their event loop.
type Deferrer func(d time.Duration, f func())

// AfterFunc is the default Deferrer, backed by time.AfterFunc. f runs on its
// own goroutine. The drag state it touches is locked, so it is usable by
// frontends that cannot post work back to their event loop.
func AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// DefaultDragDebounce separates a drag release from a click.
const DefaultDragDebounce = 50 * time.Millisecond

// dragTracker tells drags apart from clicks.
// A drag starts when the pointer moves with the button held and ends a short
// while after the button is released, so the click that follows the release is
// still seen as part of the drag.
type dragTracker struct {
	// m guards the fields below; the debounce callback may run on another goroutine.
	m        sync.Mutex
	pressed  bool
	dragging bool
	// generation invalidates pending releases when a new press starts.
	generation int

	debounce time.Duration
	after    Deferrer
}

func (d *dragTracker) press() {
	d.m.Lock()
	defer d.m.Unlock()
	d.pressed = true
	d.generation++
}

func (d *dragTracker) move() {
	d.m.Lock()
	defer d.m.Unlock()
	if d.pressed {
		d.dragging = true
	}
}

func (d *dragTracker) release() {
	d.m.Lock()
	d.pressed = false
	dragging, gen := d.dragging, d.generation
	d.m.Unlock()
	if !dragging {
		return
	}

	d.after(d.debounce, func() {
		d.m.Lock()
		defer d.m.Unlock()
		if d.generation == gen && !d.pressed {
			d.dragging = false
		}
	})
}

func (d *dragTracker) held() bool {
	d.m.Lock()
	defer d.m.Unlock()
	return d.pressed
}

func (d *dragTracker) active() bool {
	d.m.Lock()
	defer d.m.Unlock()
	return d.dragging
}
