// Command glview is a single window viewer without the GTK control panel.
// Shaders are picked with -shader and the view is driven from the keyboard
// and mouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/shaderviewer/camera"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
	"github.com/stewi1014/shaderviewer/remote"
	"github.com/stewi1014/shaderviewer/render"
)

const (
	orbitSpeed = 0.005
	dollyStep  = 0.9

	// seconds between polls while idle
	idleWait = 0.5
)

func init() {
	// GLFW and the GL context belong to the main thread.
	runtime.LockOSThread()
}

type options struct {
	shader        string
	iterations    int
	width, height int
	listen        string
	debug         bool
}

func main() {
	var opts options
	flag.StringVar(&opts.shader, "shader", programs.Default().ID, "shader to display")
	flag.IntVar(&opts.iterations, "iterations", programs.DefaultIterations, "iteration count")
	flag.IntVar(&opts.width, "width", 1200, "window width")
	flag.IntVar(&opts.height, "height", 800, "window height")
	flag.StringVar(&opts.listen, "listen", "", "serve the plane readout over websocket on this address")
	flag.BoolVar(&opts.debug, "debug", false, "enable GL debug output and navigator logging")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	shader, err := programs.Lookup(opts.shader)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(opts.width, opts.height, shader.Name, nil, nil)
	if err != nil {
		return fmt.Errorf("glfw.CreateWindow: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	version, err := render.Init(opts.debug)
	if err != nil {
		return fmt.Errorf("gl.Init: %w", err)
	}
	log.Println("OpenGL version", version)

	v, err := newViewer(window, shader, opts)
	if err != nil {
		return err
	}
	defer v.scene.Delete()

	if opts.listen != "" {
		v.hub = remote.NewHub()
		go func() {
			if err := v.hub.ListenAndServe(ctx, opts.listen); err != nil {
				log.Println(err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		glfw.PostEmptyEvent()
	}()

	v.nav.Reset()
	if window.GetAttrib(glfw.Hovered) == glfw.True {
		x, y := window.GetCursorPos()
		v.cursor = mgl64.Vec2{x, y}
		v.publish(navigator.PointerEnter)
	}

	for !window.ShouldClose() && ctx.Err() == nil {
		v.queue.Run()
		if v.dirty {
			v.dirty = false
			v.scene.Draw(toMat32(v.camera.MVP()))
			window.SwapBuffers()
		}
		glfw.WaitEventsTimeout(idleWait)
	}
	return nil
}

type viewer struct {
	window *glfw.Window
	shader programs.Program

	queue  *navigator.Queue
	feed   *navigator.PointerFeed
	nav    *navigator.Navigator
	camera *camera.Camera
	scene  *render.Scene
	hub    *remote.Hub

	cursor   mgl64.Vec2
	orbiting bool
	dirty    bool
}

func newViewer(window *glfw.Window, shader programs.Program, opts options) (*viewer, error) {
	v := &viewer{
		window: window,
		shader: shader,
		queue:  navigator.NewQueue(glfw.PostEmptyEvent),
		feed:   navigator.NewPointerFeed(),
		camera: camera.New(),
		dirty:  true,
	}

	cfg := navigator.DefaultConfig()
	v.scene = render.NewScene(cfg.WorldHalfSize, cfg.WorldHalfSize.Mul(cfg.ZoomFactor))

	var u programs.Uniforms
	u.DefaultValues(shader)
	u.SetIterations(opts.iterations)
	v.scene.SetUniforms(u)
	if err := v.scene.Setup(shader); err != nil {
		return nil, err
	}

	var logger *log.Logger
	if opts.debug {
		logger = log.Default()
	}
	nav, err := navigator.New(cfg,
		navigator.WithPicker(v.camera),
		navigator.WithAttributeSink(v.scene),
		navigator.WithPreviewSink(v.scene),
		navigator.WithReadoutSink(v),
		navigator.WithDeferrer(v.queue.Defer),
		navigator.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	v.nav = nav
	v.nav.Attach(v.feed)

	w, h := window.GetSize()
	v.camera.SetViewport(w, h)
	fw, fh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))

	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		v.camera.SetViewport(width, height)
		v.dirty = true
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		v.dirty = true
	})
	window.SetRefreshCallback(func(_ *glfw.Window) {
		v.dirty = true
	})
	window.SetCursorPosCallback(v.cursorPos)
	window.SetCursorEnterCallback(v.cursorEnter)
	window.SetMouseButtonCallback(v.mouseButton)
	window.SetScrollCallback(v.scroll)
	window.SetKeyCallback(v.key)

	return v, nil
}

// ShowReadout puts the readout in the window title and forwards it to any
// websocket observers.
func (v *viewer) ShowReadout(r navigator.Readout) {
	minReal, maxReal, minImag, maxImag, _, zoom := r.Strings()
	v.window.SetTitle(fmt.Sprintf("%v  Re [%v, %v]  Im [%v, %v]  x%v",
		v.shader.Name, minReal, maxReal, minImag, maxImag, zoom))
	if v.hub != nil {
		v.hub.ShowReadout(r)
	}
}

func (v *viewer) publish(kind navigator.PointerKind) {
	v.feed.Publish(navigator.PointerEvent{Kind: kind, Pos: v.cursor})
	v.dirty = true
}

func (v *viewer) cursorPos(_ *glfw.Window, x, y float64) {
	pos := mgl64.Vec2{x, y}
	if v.orbiting {
		d := pos.Sub(v.cursor)
		v.camera.Orbit(-d[0]*orbitSpeed, -d[1]*orbitSpeed)
	}
	v.cursor = pos
	v.publish(navigator.PointerMove)
}

func (v *viewer) cursorEnter(_ *glfw.Window, entered bool) {
	if entered {
		v.publish(navigator.PointerEnter)
	} else {
		v.publish(navigator.PointerLeave)
	}
}

func (v *viewer) mouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	x, y := w.GetCursorPos()
	v.cursor = mgl64.Vec2{x, y}

	switch {
	case button == glfw.MouseButtonLeft && action == glfw.Press:
		v.orbiting = true
		v.publish(navigator.PointerDown)
	case button == glfw.MouseButtonLeft && action == glfw.Release:
		v.orbiting = false
		v.publish(navigator.PointerUp)
		v.publish(navigator.Click)
	case button == glfw.MouseButtonRight && action == glfw.Release:
		v.publish(navigator.ContextClick)
	}
}

func (v *viewer) scroll(_ *glfw.Window, _, yoff float64) {
	switch {
	case yoff > 0:
		v.camera.Dolly(dollyStep)
	case yoff < 0:
		v.camera.Dolly(1 / dollyStep)
	default:
		return
	}
	v.publish(navigator.PointerMove)
}

func (v *viewer) key(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
		return
	case glfw.KeyW, glfw.KeyUp:
		v.camera.MoveForward()
	case glfw.KeyS, glfw.KeyDown:
		v.camera.MoveBackward()
	case glfw.KeyA, glfw.KeyLeft:
		v.camera.MoveLeft()
	case glfw.KeyD, glfw.KeyRight:
		v.camera.MoveRight()
	case glfw.KeyQ:
		v.camera.RotateLeft()
	case glfw.KeyE:
		v.camera.RotateRight()
	case glfw.KeySpace, glfw.KeyPageUp:
		v.camera.MoveUp()
	case glfw.KeyC, glfw.KeyPageDown:
		v.camera.MoveDown()
	case glfw.KeyR:
		v.camera.Reset()
	case glfw.KeyHome:
		v.nav.Reset()
	default:
		return
	}
	v.publish(navigator.PointerMove)
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
