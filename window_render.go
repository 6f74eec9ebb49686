package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/shaderviewer/camera"
	"github.com/stewi1014/shaderviewer/ipc"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
	"github.com/stewi1014/shaderviewer/remote"
	"github.com/stewi1014/shaderviewer/render"
)

const (
	buttonPrimary   = 1
	buttonSecondary = 3

	// radians per pixel of drag
	orbitSpeed = 0.005
	dollyStep  = 0.9
)

type RenderOptions struct {
	Shader     programs.Program
	Iterations int
	Hub        *remote.Hub
}

func NewRenderWindow(
	app *gtk.Application,
	conn net.Conn,
	ctx context.Context,
	quit context.CancelCauseFunc,
	opts RenderOptions,
) *RenderWindow {
	var err error
	w := &RenderWindow{
		ctx:    ctx,
		quit:   quit,
		shader: opts.Shader,
		feed:   navigator.NewPointerFeed(),
	}
	w.uniforms.DefaultValues(opts.Shader)
	w.uniforms.SetIterations(opts.Iterations)

	cfg := navigator.DefaultConfig()
	w.camera = camera.New()
	w.scene = render.NewScene(cfg.WorldHalfSize, cfg.WorldHalfSize.Mul(cfg.ZoomFactor))
	w.scene.SetUniforms(w.uniforms)

	w.peer = ipc.NewPeer(ctx, conn, quit, dispatchIdle, w.handleMessage)

	sinks := readoutSinks{peerReadout{w.peer}}
	if opts.Hub != nil {
		sinks = append(sinks, opts.Hub)
	}

	var logger *log.Logger
	if debug {
		logger = log.Default()
	}
	w.nav, err = navigator.New(cfg,
		navigator.WithPicker(w.camera),
		navigator.WithAttributeSink(w.scene),
		navigator.WithPreviewSink(w.scene),
		navigator.WithReadoutSink(sinks),
		navigator.WithDeferrer(w.deferOnMain),
		navigator.WithLogger(logger),
	)
	if err != nil {
		quit(fmt.Errorf("navigator.New: %w", err))
		return nil
	}
	w.nav.Attach(w.feed)

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(renderWindowSize())

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)
	w.gla.Connect("resize", w.resize)

	w.gla.SetEvents(
		int(gdk.POINTER_MOTION_MASK) |
			int(gdk.ENTER_NOTIFY_MASK) |
			int(gdk.LEAVE_NOTIFY_MASK) |
			int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.SCROLL_MASK),
	)
	w.gla.Connect("motion-notify-event", w.motion)
	w.gla.Connect("enter-notify-event", w.enter)
	w.gla.Connect("leave-notify-event", w.leave)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("scroll-event", w.scroll)
	w.Connect("key-press-event", w.key)

	w.Add(w.gla)
	w.ShowAll()

	return w
}

// renderWindowSize covers part of the primary monitor, falling back to a
// fixed size when there is no display information.
func renderWindowSize() (width, height int) {
	const share = 0.6

	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return 1200, 800
	}
	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return 1200, 800
	}
	geometry := monitor.GetGeometry()
	return int(float64(geometry.GetWidth()) * share), int(float64(geometry.GetHeight()) * share)
}

func dispatchIdle(f func()) {
	glib.IdleAdd(f)
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	gla *gtk.GLArea

	ctx  context.Context
	quit context.CancelCauseFunc
	peer *ipc.Peer

	feed   *navigator.PointerFeed
	nav    *navigator.Navigator
	camera *camera.Camera
	scene  *render.Scene

	shader   programs.Program
	uniforms programs.Uniforms

	cursor   mgl64.Vec2
	hovering bool
	orbiting bool
}

// deferOnMain runs f on the GTK main loop after d.
func (w *RenderWindow) deferOnMain(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		glib.IdleAdd(func() {
			f()
			w.gla.QueueRender()
		})
	})
}

type peerReadout struct {
	peer *ipc.Peer
}

func (p peerReadout) ShowReadout(r navigator.Readout) {
	p.peer.Send(r)
}

type readoutSinks []navigator.ReadoutSink

func (s readoutSinks) ShowReadout(r navigator.Readout) {
	for _, sink := range s {
		sink.ShowReadout(r)
	}
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	version, err := render.Init(debug)
	if err != nil {
		w.quit(fmt.Errorf("gl.Init: %w", err))
		return
	}
	log.Println("OpenGL version", version)

	if err := w.scene.Setup(w.shader); err != nil {
		w.quit(err)
		return
	}
	w.shaderLoaded(nil)
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) {
	w.scene.Draw(toMat32(w.camera.MVP()))
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	gla.MakeCurrent()
	w.scene.Delete()
	w.nav.Detach()
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	w.camera.SetViewport(gla.GetAllocatedWidth(), gla.GetAllocatedHeight())
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func (w *RenderWindow) publish(kind navigator.PointerKind) {
	w.feed.Publish(navigator.PointerEvent{Kind: kind, Pos: w.cursor})
	w.gla.QueueRender()
}

// retrack re-picks the plane under a stationary cursor after the camera moved.
func (w *RenderWindow) retrack() {
	if w.hovering {
		w.publish(navigator.PointerMove)
	}
	w.gla.QueueRender()
}

func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) {
	x, y := gdk.EventMotionNewFromEvent(event).MotionVal()
	pos := mgl64.Vec2{x, y}

	if w.orbiting {
		d := pos.Sub(w.cursor)
		w.camera.Orbit(-d[0]*orbitSpeed, -d[1]*orbitSpeed)
	}

	w.cursor = pos
	w.publish(navigator.PointerMove)
}

func (w *RenderWindow) enter(gla *gtk.GLArea, event *gdk.Event) {
	w.hovering = true
	w.publish(navigator.PointerEnter)
}

func (w *RenderWindow) leave(gla *gtk.GLArea, event *gdk.Event) {
	w.hovering = false
	w.publish(navigator.PointerLeave)
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	x, y := button.MotionVal()
	w.cursor = mgl64.Vec2{x, y}

	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		if button.ButtonVal() == buttonPrimary {
			w.orbiting = true
			w.publish(navigator.PointerDown)
		}

	case gdk.EVENT_BUTTON_RELEASE:
		switch button.ButtonVal() {
		case buttonPrimary:
			w.orbiting = false
			w.publish(navigator.PointerUp)
			w.publish(navigator.Click)
		case buttonSecondary:
			w.publish(navigator.ContextClick)
		}
	}
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	switch gdk.EventScrollNewFromEvent(event).Direction() {
	case gdk.SCROLL_UP:
		w.camera.Dolly(dollyStep)
	case gdk.SCROLL_DOWN:
		w.camera.Dolly(1 / dollyStep)
	default:
		return
	}
	w.retrack()
}

func (w *RenderWindow) key(win *gtk.ApplicationWindow, event *gdk.Event) bool {
	switch gdk.EventKeyNewFromEvent(event).KeyVal() {
	case gdk.KEY_w, gdk.KEY_Up:
		w.camera.MoveForward()
	case gdk.KEY_s, gdk.KEY_Down:
		w.camera.MoveBackward()
	case gdk.KEY_a, gdk.KEY_Left:
		w.camera.MoveLeft()
	case gdk.KEY_d, gdk.KEY_Right:
		w.camera.MoveRight()
	case gdk.KEY_q:
		w.camera.RotateLeft()
	case gdk.KEY_e:
		w.camera.RotateRight()
	case gdk.KEY_space, gdk.KEY_Page_Up:
		w.camera.MoveUp()
	case gdk.KEY_c, gdk.KEY_Page_Down:
		w.camera.MoveDown()
	case gdk.KEY_r:
		w.camera.Reset()
	default:
		return false
	}
	w.retrack()
	return true
}

func (w *RenderWindow) handleMessage(v any) {
	switch msg := v.(type) {
	case ipc.SelectShader:
		w.selectShader(msg.ID)

	case *programs.Uniforms:
		w.uniforms = *msg
		w.scene.SetUniforms(w.uniforms)
		w.gla.QueueRender()

	case ipc.SaveRequest:
		save(w.ctx, w.ApplicationWindow, msg, w.shader, w.uniforms, w.nav.Corners(), w.nav.Readout())

	default:
		log.Printf("render window can't handle %T", v)
	}
}

func (w *RenderWindow) selectShader(id string) {
	shader, err := programs.Lookup(id)
	if err == nil {
		w.gla.MakeCurrent()
		err = w.scene.LoadProgram(shader)
	}
	if err != nil {
		log.Println(err)
		showError(w, err)
		w.shaderLoaded(err)
		return
	}

	// colours and the julia constant reset, the iteration count carries over
	iterations := w.uniforms.MaxIterations
	w.shader = shader
	w.uniforms.DefaultValues(shader)
	w.uniforms.MaxIterations = iterations
	w.scene.SetUniforms(w.uniforms)
	w.shaderLoaded(nil)
	w.gla.QueueRender()
}

// shaderLoaded resets the view and tells the control window what is active.
func (w *RenderWindow) shaderLoaded(err error) {
	msg := ipc.ShaderLoaded{
		ID:       w.shader.ID,
		Name:     w.shader.Name,
		Julia:    w.shader.Julia,
		Uniforms: w.uniforms,
	}
	if err != nil {
		msg.Err = err.Error()
	} else {
		w.nav.Reset()
	}
	w.peer.Send(msg)
}
