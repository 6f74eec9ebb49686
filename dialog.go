package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

const progressInterval = time.Second / 10

// recoverInto turns a panic in the calling goroutine into the cause of cancel.
// It must be deferred.
func recoverInto(cancel context.CancelCauseFunc) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	cancel(fmt.Errorf("%w\n%s", err, debug.Stack()))
}

// reportCause waits for ctx and shows its cause, unless it ended normally.
func reportCause(parent gtk.IWindow, ctx context.Context) {
	go func() {
		<-ctx.Done()
		err := context.Cause(ctx)
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Println(err)
		glib.IdleAdd(func() { showError(parent, err) })
	}()
}

// showError blocks on a modal dialog describing err. The text can be selected
// so stack traces can be copied out.
func showError(parent gtk.IWindow, err error) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_MODAL|gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		err.Error(),
	)
	defer dialog.Destroy()

	if area, aerr := dialog.GetMessageArea(); aerr == nil {
		area.GetChildren().Foreach(func(item interface{}) {
			widget, ok := item.(*gtk.Widget)
			if !ok {
				return
			}
			if l, lerr := gtk.WidgetToLabel(widget); lerr == nil {
				l.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}

// ProgressDialog follows a long running job through its stages.
// Closing or cancelling the dialog calls onCancel. The dialog destroys itself
// when ctx ends.
type ProgressDialog struct {
	*gtk.Dialog
	stage *gtk.Label
	bar   *gtk.ProgressBar

	m        sync.Mutex
	name     string
	fraction func() float64
}

func NewProgressDialog(
	ctx context.Context,
	parent gtk.IWindow,
	title string,
	onCancel func(),
) (*ProgressDialog, error) {
	dialog, err := gtk.DialogNewWithButtons(
		title,
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"Cancel", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return nil, err
	}
	p := &ProgressDialog{Dialog: dialog}

	p.Connect("response", func(_ *gtk.Dialog, response gtk.ResponseType) {
		switch response {
		case gtk.RESPONSE_CANCEL, gtk.RESPONSE_DELETE_EVENT:
			onCancel()
		}
	})

	content, err := p.GetContentArea()
	if err != nil {
		return nil, err
	}
	content.SetSpacing(6)

	if p.stage, err = gtk.LabelNew(""); err != nil {
		return nil, err
	}
	if p.bar, err = gtk.ProgressBarNew(); err != nil {
		return nil, err
	}
	p.bar.SetShowText(true)
	p.bar.SetSizeRequest(480, -1)

	content.PackStart(p.stage, false, false, 0)
	content.PackStart(p.bar, false, false, 0)

	go p.poll(ctx)
	return p, nil
}

// SetStage replaces the stage being shown. It is safe to call from any goroutine.
func (p *ProgressDialog) SetStage(name string, fraction func() float64) {
	p.m.Lock()
	p.name, p.fraction = name, fraction
	p.m.Unlock()
}

func (p *ProgressDialog) poll(ctx context.Context) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			glib.IdleAdd(p.Destroy)
			return
		case <-ticker.C:
			p.m.Lock()
			name, fraction := p.name, p.fraction
			p.m.Unlock()

			glib.IdleAdd(func() {
				p.stage.SetText(name)
				if fraction == nil {
					p.bar.Pulse()
					return
				}
				p.bar.SetFraction(fraction())
			})
		}
	}
}

// SavedImage shows a scaled copy of an exported file and offers to delete it.
type SavedImage struct {
	*gtk.ApplicationWindow
	path string
}

func NewSavedImage(app *gtk.Application, pixbuf *gdk.Pixbuf, path string) (*SavedImage, error) {
	window, err := gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, err
	}
	s := &SavedImage{ApplicationWindow: window, path: path}
	s.SetTitle(filepath.Base(path))

	image, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, err
	}
	image.SetHExpand(true)
	image.SetVExpand(true)

	keep, err := gtk.ButtonNewWithLabel("Keep")
	if err != nil {
		return nil, err
	}
	keep.Connect("clicked", s.Destroy)

	discard, err := gtk.ButtonNewWithLabel("Delete")
	if err != nil {
		return nil, err
	}
	discard.Connect("clicked", s.discard)

	buttons, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 6)
	if err != nil {
		return nil, err
	}
	buttons.PackStart(keep, false, false, 0)
	buttons.PackEnd(discard, false, false, 0)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		return nil, err
	}
	box.SetBorderWidth(6)
	box.PackStart(image, true, true, 0)
	box.PackStart(buttons, false, false, 0)
	s.Add(box)

	return s, nil
}

func (s *SavedImage) discard() {
	if err := os.Remove(s.path); err != nil {
		showError(s, err)
	}
	s.Destroy()
}
