package navigator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRender(t *testing.T) {
	c := Render(PlaneBounds{Center: mgl64.Vec2{-0.5, 0.25}, HalfRange: 0.5})
	want := Corners{MinReal: -1, MaxReal: 0, MinImag: -0.25, MaxImag: 0.75}
	if c != want {
		t.Errorf("Render() = %+v, want %+v", c, want)
	}
}

func TestVertexAttributesLayout(t *testing.T) {
	c := Corners{MinReal: -1, MaxReal: 2, MinImag: -3, MaxImag: 4}
	re, im := VertexAttributes(c)

	want := [6][2]float64{
		{-1, -3}, // min, min
		{2, 4},   // max, max
		{-1, 4},  // min, max
		{-1, -3}, // min, min
		{2, 4},   // max, max
		{2, -3},  // max, min
	}
	for i, w := range want {
		if re[i] != w[0] || im[i] != w[1] {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, re[i], im[i], w[0], w[1])
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		digits int
		want   float64
	}{
		{"exact", 1.5, 12, 1.5},
		{"float noise", 0.1 + 0.2, 12, 0.3},
		{"below precision", 1e-15, 12, 0},
		{"negative below precision", -1e-15, 12, 0},
		{"twelfth digit", 0.1234567890126, 12, 0.123456789013},
		{"integer", 2.4, 0, 2},
		{"large", 123456.000000000001, 12, 123456},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTo(tt.x, tt.digits)
			if got != tt.want {
				t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.x, tt.digits, got, tt.want)
			}
			if math.Signbit(got) && got == 0 {
				t.Errorf("RoundTo(%v, %d) returned negative zero", tt.x, tt.digits)
			}
		})
	}

	if got := RoundTo(math.Inf(-1), 12); !math.IsInf(got, -1) {
		t.Errorf("RoundTo(-Inf) = %v", got)
	}
}

func TestNewReadout(t *testing.T) {
	tests := []struct {
		name   string
		bounds PlaneBounds
		want   Readout
	}{
		{
			name:   "home",
			bounds: PlaneBounds{HalfRange: 2},
			want:   Readout{MinReal: -2, MaxReal: 2, MinImag: -2, MaxImag: 2, Length: 2, ZoomLevel: 1},
		},
		{
			name:   "zoomed",
			bounds: PlaneBounds{Center: mgl64.Vec2{1, -1}, HalfRange: 0.25},
			want:   Readout{MinReal: 0.75, MaxReal: 1.25, MinImag: -1.25, MaxImag: -0.75, Length: 0.25, ZoomLevel: 8},
		},
		{
			name:   "deep",
			bounds: PlaneBounds{Center: mgl64.Vec2{0.1, 0.2}, HalfRange: 2 * math.Pow(0.5, 45)},
			want: Readout{
				MinReal:   0.1,
				MaxReal:   0.1,
				MinImag:   0.2,
				MaxImag:   0.2,
				Length:    0,
				ZoomLevel: 1 << 45,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewReadout(tt.bounds, 2); got != tt.want {
				t.Errorf("NewReadout() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadoutStrings(t *testing.T) {
	r := Readout{MinReal: -2, MaxReal: 2, MinImag: -0.5, MaxImag: 0.000001, Length: 2, ZoomLevel: 4}
	minReal, maxReal, minImag, maxImag, length, zoom := r.Strings()
	got := []string{minReal, maxReal, minImag, maxImag, length, zoom}
	want := []string{"-2", "2", "-0.5", "1e-06", "2", "4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPointerFeedSubscriptions(t *testing.T) {
	feed := NewPointerFeed()

	var a, b []PointerKind
	unsubA := feed.Subscribe(func(ev PointerEvent) { a = append(a, ev.Kind) })
	unsubB := feed.Subscribe(func(ev PointerEvent) { b = append(b, ev.Kind) })

	feed.Publish(PointerEvent{Kind: PointerEnter})
	unsubA()
	unsubA()
	feed.Publish(PointerEvent{Kind: PointerMove})
	unsubB()
	feed.Publish(PointerEvent{Kind: PointerLeave})

	if len(a) != 1 || a[0] != PointerEnter {
		t.Errorf("first subscriber saw %v, want [enter]", a)
	}
	if len(b) != 2 || b[0] != PointerEnter || b[1] != PointerMove {
		t.Errorf("second subscriber saw %v, want [enter move]", b)
	}
}

func TestNavigatorsShareFeed(t *testing.T) {
	feed := NewPointerFeed()
	picker := &fakePicker{hit: mgl64.Vec2{0.1, 0.1}, ok: true}

	first := mustNew(t, scenarioConfig(), WithPicker(picker))
	second := mustNew(t, scenarioConfig(), WithPicker(picker))
	first.Attach(feed)
	second.Attach(feed)

	feed.Publish(PointerEvent{Kind: PointerEnter})
	feed.Publish(PointerEvent{Kind: PointerMove})
	second.Detach()
	feed.Publish(PointerEvent{Kind: Click})

	if got := first.Bounds().HalfRange; got != 1 {
		t.Errorf("attached navigator half range = %v, want 1", got)
	}
	if got := second.Bounds().HalfRange; got != 2 {
		t.Errorf("detached navigator half range = %v, want 2", got)
	}
}
