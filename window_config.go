package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"path/filepath"

	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/shaderviewer/ipc"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
	"github.com/stewi1014/shaderviewer/session"
)

const (
	colourStep    = 0.01
	iterationStep = 100
	juliaStep     = 0.005
	juliaLimit    = 4
)

func NewConfigWindow(
	app *gtk.Application,
	listener net.Listener,
	ctx context.Context,
	quit context.CancelCauseFunc,
	store *session.Store,
) *ConfigWindow {
	var err error
	w := &ConfigWindow{
		quit:  quit,
		store: store,
	}

	conn, err := listener.Accept()
	if err != nil {
		quit(fmt.Errorf("accepting control connection: %w", err))
		return nil
	}
	w.peer = ipc.NewPeer(ctx, conn, quit, dispatchIdle, w.handleMessage)

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(280, 700)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	box.SetMarginStart(8)
	box.SetMarginEnd(8)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)

	for _, build := range []func() (gtk.IWidget, error){
		w.buildShaderSelector,
		w.buildReadout,
		w.buildColours,
		w.buildIterations,
		w.buildJulia,
		w.buildSave,
	} {
		widget, err := build()
		if err != nil {
			quit(err)
			return nil
		}
		box.PackStart(widget, false, false, 0)
	}

	w.Add(box)
	w.ShowAll()

	return w
}

type ConfigWindow struct {
	*gtk.ApplicationWindow
	quit  context.CancelCauseFunc
	peer  *ipc.Peer
	store *session.Store

	shaders  *gtk.ComboBoxText
	readout  [6]*gtk.Label
	colours  [6]*gtk.Scale
	iters    *gtk.SpinButton
	julia    [2]*gtk.SpinButton
	juliaBox *gtk.Frame

	saveWidth, saveHeight *gtk.SpinButton
	saveAntialias         *gtk.CheckButton
	saveCaption           *gtk.CheckButton

	shaderID string
	uniforms programs.Uniforms

	// set while widgets are updated from a message, so their signals don't echo back
	updating bool
}

func framed(label string, child gtk.IWidget) (*gtk.Frame, error) {
	frame, err := gtk.FrameNew(label)
	if err != nil {
		return nil, err
	}
	frame.Add(child)
	return frame, nil
}

func grid() (*gtk.Grid, error) {
	g, err := gtk.GridNew()
	if err != nil {
		return nil, err
	}
	g.SetColumnSpacing(6)
	g.SetRowSpacing(4)
	g.SetBorderWidth(4)
	return g, nil
}

func label(text string) *gtk.Label {
	l, _ := gtk.LabelNew(text)
	l.SetHAlign(gtk.ALIGN_START)
	return l
}

func (w *ConfigWindow) buildShaderSelector() (gtk.IWidget, error) {
	var err error
	w.shaders, err = gtk.ComboBoxTextNew()
	if err != nil {
		return nil, err
	}
	for _, p := range programs.All() {
		w.shaders.Append(p.ID, p.Name)
	}
	w.shaders.Connect("changed", func() {
		id := w.shaders.GetActiveID()
		if w.updating || id == "" || id == w.shaderID {
			return
		}
		w.peer.Send(ipc.SelectShader{ID: id})
	})
	return framed("Shader", w.shaders)
}

func (w *ConfigWindow) buildReadout() (gtk.IWidget, error) {
	g, err := grid()
	if err != nil {
		return nil, err
	}
	for i, name := range []string{"Re min", "Re max", "Im min", "Im max", "Length", "Zoom"} {
		w.readout[i] = label("")
		w.readout[i].SetSelectable(true)
		g.Attach(label(name), 0, i, 1, 1)
		g.Attach(w.readout[i], 1, i, 1, 1)
	}
	return framed("Complex plane", g)
}

func (w *ConfigWindow) buildColours() (gtk.IWidget, error) {
	g, err := grid()
	if err != nil {
		return nil, err
	}
	for i, name := range []string{"R min", "R max", "G min", "G max", "B min", "B max"} {
		scale, err := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL, 0, 1, colourStep)
		if err != nil {
			return nil, err
		}
		scale.SetHExpand(true)
		scale.SetDigits(2)
		scale.Connect("value-changed", w.sendUniforms)
		w.colours[i] = scale

		g.Attach(label(name), 0, i, 1, 1)
		g.Attach(scale, 1, i, 1, 1)
	}
	return framed("Colour", g)
}

func (w *ConfigWindow) buildIterations() (gtk.IWidget, error) {
	var err error
	w.iters, err = gtk.SpinButtonNewWithRange(1, programs.MaxIterations, iterationStep)
	if err != nil {
		return nil, err
	}
	w.iters.Connect("value-changed", w.sendUniforms)
	return framed("Iterations", w.iters)
}

func (w *ConfigWindow) buildJulia() (gtk.IWidget, error) {
	g, err := grid()
	if err != nil {
		return nil, err
	}
	for i, name := range []string{"Re", "Im"} {
		spin, err := gtk.SpinButtonNewWithRange(-juliaLimit, juliaLimit, juliaStep)
		if err != nil {
			return nil, err
		}
		spin.SetDigits(3)
		spin.SetHExpand(true)
		spin.Connect("value-changed", w.sendUniforms)
		w.julia[i] = spin

		g.Attach(label(name), 0, i, 1, 1)
		g.Attach(spin, 1, i, 1, 1)
	}
	w.juliaBox, err = framed("Julia constant", g)
	return w.juliaBox, err
}

func (w *ConfigWindow) buildSave() (gtk.IWidget, error) {
	g, err := grid()
	if err != nil {
		return nil, err
	}

	if w.saveWidth, err = gtk.SpinButtonNewWithRange(1, 16384, 100); err != nil {
		return nil, err
	}
	w.saveWidth.SetValue(1920)
	if w.saveHeight, err = gtk.SpinButtonNewWithRange(1, 16384, 100); err != nil {
		return nil, err
	}
	w.saveHeight.SetValue(1080)
	if w.saveAntialias, err = gtk.CheckButtonNewWithLabel("Antialias"); err != nil {
		return nil, err
	}
	if w.saveCaption, err = gtk.CheckButtonNewWithLabel("Caption"); err != nil {
		return nil, err
	}
	button, err := gtk.ButtonNewWithLabel("Save PNG")
	if err != nil {
		return nil, err
	}
	button.Connect("clicked", w.chooseSaveFile)

	g.Attach(label("Width"), 0, 0, 1, 1)
	g.Attach(w.saveWidth, 1, 0, 1, 1)
	g.Attach(label("Height"), 0, 1, 1, 1)
	g.Attach(w.saveHeight, 1, 1, 1, 1)
	g.Attach(w.saveAntialias, 0, 2, 2, 1)
	g.Attach(w.saveCaption, 0, 3, 2, 1)
	g.Attach(button, 0, 4, 2, 1)
	return framed("Export", g)
}

func (w *ConfigWindow) chooseSaveFile() {
	chooser, err := gtk.FileChooserNativeDialogNew("Save Image", w, gtk.FILE_CHOOSER_ACTION_SAVE, "_Save", "_Cancel")
	if err != nil {
		showError(w, err)
		return
	}
	defer chooser.Destroy()
	chooser.SetDoOverwriteConfirmation(true)
	chooser.SetCurrentName(w.shaderID + ".png")

	if chooser.Run() != int(gtk.RESPONSE_ACCEPT) {
		return
	}

	name := chooser.GetFilename()
	if filepath.Ext(name) == "" {
		name += ".png"
	}

	req := ipc.SaveRequest{
		Path:    name,
		Width:   w.saveWidth.GetValueAsInt(),
		Height:  w.saveHeight.GetValueAsInt(),
		Caption: w.saveCaption.GetActive(),
	}
	if w.saveAntialias.GetActive() {
		req.Antialias = 1.0 / 3
	}
	w.peer.Send(req)
}

// sendUniforms reads the widgets and pushes the uniforms to the render window.
func (w *ConfigWindow) sendUniforms() {
	if w.updating {
		return
	}

	u := w.uniforms
	u.SetColour('r', float32(w.colours[0].GetValue()), float32(w.colours[1].GetValue()))
	u.SetColour('g', float32(w.colours[2].GetValue()), float32(w.colours[3].GetValue()))
	u.SetColour('b', float32(w.colours[4].GetValue()), float32(w.colours[5].GetValue()))
	u.SetIterations(w.iters.GetValueAsInt())
	u.JRe = float32(w.julia[0].GetValue())
	u.JIm = float32(w.julia[1].GetValue())

	if u == w.uniforms {
		return
	}
	w.uniforms = u
	w.peer.Send(&u)
}

func (w *ConfigWindow) handleMessage(v any) {
	switch msg := v.(type) {
	case ipc.ShaderLoaded:
		w.shaderLoaded(msg)

	case navigator.Readout:
		for i, s := range formatReadout(msg) {
			w.readout[i].SetText(s)
		}

	default:
		log.Printf("config window can't handle %T", v)
	}
}

func formatReadout(r navigator.Readout) [6]string {
	minReal, maxReal, minImag, maxImag, length, zoom := r.Strings()
	return [6]string{minReal, maxReal, minImag, maxImag, length, "x" + zoom}
}

func (w *ConfigWindow) shaderLoaded(msg ipc.ShaderLoaded) {
	w.updating = true
	defer func() { w.updating = false }()

	// a failed load keeps the previous shader selected
	w.shaders.SetActiveID(msg.ID)
	if msg.Err != "" {
		return
	}

	w.shaderID = msg.ID
	w.uniforms = msg.Uniforms
	u := msg.Uniforms
	for i, v := range []float32{u.RMin, u.RMax, u.GMin, u.GMax, u.BMin, u.BMax} {
		w.colours[i].SetValue(float64(v))
	}
	w.iters.SetValue(float64(u.MaxIterations))
	w.julia[0].SetValue(float64(u.JRe))
	w.julia[1].SetValue(float64(u.JIm))
	w.juliaBox.SetSensitive(msg.Julia)

	if w.store != nil {
		if err := w.store.Save(session.State{LastShader: msg.ID}); err != nil {
			log.Println(err)
		}
	}
}
