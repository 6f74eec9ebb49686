package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/shaderviewer/export"
	"github.com/stewi1014/shaderviewer/ipc"
	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

const previewSize = 480

// save renders the view on the CPU and writes it to req.Path, showing progress
// and then a preview. It must be called on the GTK main loop.
func save(
	ctx context.Context,
	window *gtk.ApplicationWindow,
	req ipc.SaveRequest,
	shader programs.Program,
	uniforms programs.Uniforms,
	corners navigator.Corners,
	readout navigator.Readout,
) {
	ctx, cancel := context.WithCancelCause(ctx)
	reportCause(window, ctx)

	region := programs.Region(corners).Fit(req.Width, req.Height)
	src, err := shader.GetImage(uniforms, region, req.Width, req.Height)
	if err != nil {
		cancel(fmt.Errorf("saving %v: %w", req.Path, err))
		return
	}

	progress, err := NewProgressDialog(
		ctx, window, fmt.Sprintf("Saving %v", filepath.Base(req.Path)),
		func() { cancel(context.Canceled) },
	)
	if err != nil {
		cancel(err)
		return
	}
	progress.ShowAll()

	go func() {
		defer recoverInto(cancel)

		img, err := export.Render(ctx, src, req.Antialias, progress.SetStage)
		if err != nil {
			cancel(err)
			return
		}

		if req.Caption {
			export.Caption(img, export.CaptionLines(shader.Name, readout))
		}

		progress.SetStage("Writing "+req.Path, nil)
		if err := export.WritePNG(req.Path, img); err != nil {
			cancel(err)
			return
		}
		log.Println("saved", req.Path)

		glib.IdleAdd(func() {
			showSaved(window, req.Path)
		})
		cancel(context.Canceled)
	}()
}

func showSaved(window *gtk.ApplicationWindow, path string) {
	pixbuf, err := gdk.PixbufNewFromFileAtScale(path, previewSize, previewSize, true)
	if err != nil {
		showError(window, err)
		return
	}

	app, err := window.GetApplication()
	if err != nil {
		showError(window, err)
		return
	}

	preview, err := NewSavedImage(app, pixbuf, path)
	if err != nil {
		showError(window, err)
		return
	}
	preview.ShowAll()
}
