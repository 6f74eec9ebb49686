// Package navigator keeps track of the visible window over the complex plane
// and turns pointer gestures into zoom steps.
//
// The plot is a fixed quad in world space. A preview rectangle follows the
// pointer over the quad and shows where the next zoom-in lands. A click zooms
// into the rectangle and a context click zooms back out, saturating at the
// initial view.
//
// A Navigator is not safe for concurrent use. All methods must run on the same
// event loop. Deferred drag callbacks may run elsewhere, but frontends should
// supply a Deferrer that brings them back onto the loop so the change is
// followed by a redraw.
package navigator

import (
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultInitialRange = 2.0
	DefaultZoomFactor   = 0.5
	// DefaultMinHalfRange stops zooming in once the half range reaches the
	// precision of the readout.
	DefaultMinHalfRange = 1e-12
)

// Config sizes a Navigator.
type Config struct {
	// InitialRange is the half range of the home view.
	InitialRange float64
	// WorldHalfSize is the half extent of the plot quad in world units.
	WorldHalfSize mgl64.Vec2
	// ZoomFactor scales the half range per zoom step, in (0, 1).
	ZoomFactor float64
	// MinHalfRange is the smallest half range a zoom-in may produce.
	// Zero disables the floor.
	MinHalfRange float64
}

// DefaultConfig returns the home view of the viewer.
func DefaultConfig() Config {
	return Config{
		InitialRange:  DefaultInitialRange,
		WorldHalfSize: mgl64.Vec2{1, 1},
		ZoomFactor:    DefaultZoomFactor,
		MinHalfRange:  DefaultMinHalfRange,
	}
}

func (c Config) validate() error {
	if !(c.InitialRange > 0) || math.IsInf(c.InitialRange, 0) {
		return &ConfigurationError{Field: "initial range", Value: c.InitialRange, Want: "a finite value > 0"}
	}
	if !(c.ZoomFactor > 0 && c.ZoomFactor < 1) {
		return &ConfigurationError{Field: "zoom factor", Value: c.ZoomFactor, Want: "a value in (0, 1)"}
	}
	if !(c.WorldHalfSize[0] > 0 && c.WorldHalfSize[1] > 0) {
		return &ConfigurationError{Field: "world half size", Value: c.WorldHalfSize, Want: "positive components"}
	}
	if c.MinHalfRange < 0 || c.MinHalfRange >= c.InitialRange {
		return &ConfigurationError{Field: "min half range", Value: c.MinHalfRange, Want: "a value in [0, initial range)"}
	}
	return nil
}

// Picker intersects the pointer with the plot quad.
// PickPlane returns the hit in plane-local world units, or false when the
// pointer is not over the quad.
type Picker interface {
	PickPlane(cursor mgl64.Vec2) (mgl64.Vec2, bool)
}

// AttributeSink receives the per-vertex plane coordinates of the quad.
type AttributeSink interface {
	SetPlaneAttributes(re, im [6]float64)
}

// ReadoutSink receives the textual readout after every change of the bounds.
type ReadoutSink interface {
	ShowReadout(Readout)
}

// PreviewSink draws the preview rectangle.
type PreviewSink interface {
	// MovePreview centers the rectangle at center, in world units.
	MovePreview(center mgl64.Vec2)
	SetPreviewOpacity(opacity float64)
}

type Option func(*Navigator)

func WithAttributeSink(s AttributeSink) Option {
	return func(n *Navigator) { n.attributes = s }
}

func WithReadoutSink(s ReadoutSink) Option {
	return func(n *Navigator) { n.readout = s }
}

func WithPreviewSink(s PreviewSink) Option {
	return func(n *Navigator) { n.preview = s }
}

func WithPicker(p Picker) Option {
	return func(n *Navigator) { n.picker = p }
}

// WithDeferrer sets how the drag debounce is scheduled. The default is AfterFunc.
func WithDeferrer(d Deferrer) Option {
	return func(n *Navigator) { n.drag.after = d }
}

func WithDragDebounce(d time.Duration) Option {
	return func(n *Navigator) { n.drag.debounce = d }
}

// WithLogger logs preview visibility changes to l.
func WithLogger(l *log.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// Navigator owns the plane bounds and the zoom preview of one plot.
type Navigator struct {
	cfg       Config
	maxOffset mgl64.Vec2

	bounds PlaneBounds
	rect   ZoomPreviewRect

	hovering bool
	drag     dragTracker

	picker     Picker
	attributes AttributeSink
	readout    ReadoutSink
	preview    PreviewSink
	logger     *log.Logger

	unsubscribe func()
}

// New builds a navigator at the home view.
// It returns a *ConfigurationError if cfg is unusable.
func New(cfg Config, options ...Option) (*Navigator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := &Navigator{
		cfg: cfg,
		maxOffset: mgl64.Vec2{
			cfg.WorldHalfSize[0] * (1 - cfg.ZoomFactor),
			cfg.WorldHalfSize[1] * (1 - cfg.ZoomFactor),
		},
		bounds: PlaneBounds{HalfRange: cfg.InitialRange},
		drag: dragTracker{
			debounce: DefaultDragDebounce,
			after:    AfterFunc,
		},
	}

	for _, option := range options {
		option(n)
	}

	return n, nil
}

func (n *Navigator) Config() Config {
	return n.cfg
}

// MaxOffset is the largest preview offset on each axis.
func (n *Navigator) MaxOffset() mgl64.Vec2 {
	return n.maxOffset
}

// PreviewHalfSize is the half extent of the preview rectangle in world units.
func (n *Navigator) PreviewHalfSize() mgl64.Vec2 {
	return n.cfg.WorldHalfSize.Mul(n.cfg.ZoomFactor)
}

func (n *Navigator) Bounds() PlaneBounds {
	return n.bounds
}

func (n *Navigator) Preview() ZoomPreviewRect {
	return n.rect
}

func (n *Navigator) Corners() Corners {
	return Render(n.bounds)
}

func (n *Navigator) Readout() Readout {
	return NewReadout(n.bounds, n.cfg.InitialRange)
}

// Dragging reports whether the pointer is being dragged, including the short
// debounce after release.
func (n *Navigator) Dragging() bool {
	return n.drag.active()
}

// Reset returns to the home view, as when a new shader is loaded.
// The preview rectangle moves back to the center and keeps its visibility.
func (n *Navigator) Reset() PlaneBounds {
	n.bounds = PlaneBounds{HalfRange: n.cfg.InitialRange}
	n.movePreview(mgl64.Vec2{})
	n.publish()
	return n.bounds
}

// Refresh pushes the current bounds to the sinks without changing them.
func (n *Navigator) Refresh() {
	n.publish()
}

// UpdatePreview moves the preview rectangle to coord, clamped to MaxOffset.
// A nil coord hides the rectangle and keeps its position.
// Repeated calls with the same coord change nothing and notify nobody.
func (n *Navigator) UpdatePreview(coord *mgl64.Vec2) ZoomPreviewRect {
	if coord == nil || math.IsNaN(coord[0]) || math.IsNaN(coord[1]) {
		n.setVisible(false)
		return n.rect
	}

	n.movePreview(mgl64.Vec2{
		clamp(coord[0], -n.maxOffset[0], n.maxOffset[0]),
		clamp(coord[1], -n.maxOffset[1], n.maxOffset[1]),
	})
	n.setVisible(true)
	return n.rect
}

// ZoomIn zooms into the preview rectangle.
// It does nothing while dragging or while the pointer is off the plot.
// The preview offset is in world units and is taken relative to
// WorldHalfSize, so the new center is center + offset/WorldHalfSize*halfRange.
// With the default unit world this is center + offset*halfRange.
func (n *Navigator) ZoomIn() PlaneBounds {
	if !n.canZoom() {
		return n.bounds
	}

	halfRange := n.bounds.HalfRange * n.cfg.ZoomFactor
	if halfRange < n.cfg.MinHalfRange || halfRange == 0 {
		return n.bounds
	}

	n.bounds.Center = n.bounds.Center.Add(n.fraction().Mul(n.bounds.HalfRange))
	n.bounds.HalfRange = halfRange
	n.publish()
	return n.bounds
}

// ZoomOut zooms away from the preview rectangle. Reaching the initial range
// snaps back to the home view. The offset is scaled like in ZoomIn, using the
// new half range.
func (n *Navigator) ZoomOut() PlaneBounds {
	if !n.canZoom() {
		return n.bounds
	}

	n.bounds.HalfRange = math.Min(n.cfg.InitialRange, n.bounds.HalfRange/n.cfg.ZoomFactor)
	if n.bounds.HalfRange == n.cfg.InitialRange {
		n.bounds.Center = mgl64.Vec2{}
		n.publish()
		return n.bounds
	}

	n.bounds.Center = n.bounds.Center.Sub(n.fraction().Mul(n.bounds.HalfRange))
	n.publish()
	return n.bounds
}

// Attach subscribes the navigator to src, replacing any previous source.
func (n *Navigator) Attach(src PointerSource) {
	n.Detach()
	n.unsubscribe = src.Subscribe(n.HandlePointer)
}

// Detach drops the pointer subscription, if any.
func (n *Navigator) Detach() {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}

// HandlePointer applies a single pointer event.
func (n *Navigator) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerEnter:
		n.hovering = true
	case PointerLeave:
		n.hovering = false
		n.UpdatePreview(nil)
	case PointerDown:
		n.hovering = true
		n.drag.press()
	case PointerUp:
		n.drag.release()
	case PointerMove:
		n.drag.move()
		n.track(ev.Pos)
	case Click:
		n.ZoomIn()
	case ContextClick:
		n.ZoomOut()
	}
}

func (n *Navigator) track(cursor mgl64.Vec2) {
	if !n.hovering || n.drag.held() || n.picker == nil {
		n.UpdatePreview(nil)
		return
	}

	coord, ok := n.picker.PickPlane(cursor)
	if !ok {
		n.UpdatePreview(nil)
		return
	}
	n.UpdatePreview(&coord)
}

func (n *Navigator) canZoom() bool {
	return !n.drag.active() && n.rect.Visible
}

// fraction is the preview offset relative to the quad half size.
func (n *Navigator) fraction() mgl64.Vec2 {
	return mgl64.Vec2{
		n.rect.Offset[0] / n.cfg.WorldHalfSize[0],
		n.rect.Offset[1] / n.cfg.WorldHalfSize[1],
	}
}

func (n *Navigator) movePreview(offset mgl64.Vec2) {
	if offset == n.rect.Offset {
		return
	}
	n.rect.Offset = offset
	if n.preview != nil {
		n.preview.MovePreview(offset)
	}
}

func (n *Navigator) setVisible(visible bool) {
	if visible == n.rect.Visible {
		return
	}
	n.rect.Visible = visible

	opacity := 0.0
	if visible {
		opacity = 1.0
	}
	if n.preview != nil {
		n.preview.SetPreviewOpacity(opacity)
	}
	if n.logger != nil {
		if visible {
			n.logger.Println("zoom preview shown")
		} else {
			n.logger.Println("zoom preview hidden")
		}
	}
}

func (n *Navigator) publish() {
	if n.attributes != nil {
		n.attributes.SetPlaneAttributes(VertexAttributes(Render(n.bounds)))
	}
	if n.readout != nil {
		n.readout.ShowReadout(n.Readout())
	}
}
