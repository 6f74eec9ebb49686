package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/shaderviewer/ipc"
	"github.com/stewi1014/shaderviewer/programs"
	"github.com/stewi1014/shaderviewer/remote"
	"github.com/stewi1014/shaderviewer/session"
)

const debug = false

type options struct {
	shader      string
	listen      string
	sessionPath string
	iterations  int
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.shader, "shader", "", "shader to load at startup (default: last used)")
	flag.StringVar(&opts.listen, "listen", "", "serve the plane readout over websocket on this address")
	flag.StringVar(&opts.sessionPath, "session", "", "session file (default: in the user config directory)")
	flag.IntVar(&opts.iterations, "iterations", programs.DefaultIterations, "initial iteration count")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	mainContext, mainQuit := context.WithCancelCause(context.Background())

	go func() {
		mainQuit(gtkMain(mainContext, opts))
	}()

	<-mainContext.Done()
	if err := context.Cause(mainContext); err != nil && err != context.Canceled {
		log.Println(err)
		os.Exit(1)
	}
}

func openSession(path string) *session.Store {
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			log.Println(err)
			return nil
		}
	}
	return session.New(path)
}

// startShader picks the -shader flag, then the last session, then the default.
func startShader(opts options, store *session.Store) (programs.Program, error) {
	if opts.shader != "" {
		return programs.Lookup(opts.shader)
	}

	if store != nil {
		state, err := store.Load()
		if err != nil {
			log.Println(err)
		}
		if state.LastShader != "" {
			p, err := programs.Lookup(state.LastShader)
			if err == nil {
				return p, nil
			}
			log.Println(err)
		}
	}
	return programs.Default(), nil
}

func gtkMain(ctx context.Context, opts options) error {
	runtime.LockOSThread()

	store := openSession(opts.sessionPath)
	shader, err := startShader(opts, store)
	if err != nil {
		return err
	}

	var hub *remote.Hub
	appContext, appQuit := context.WithCancelCause(ctx)
	if opts.listen != "" {
		hub = remote.NewHub()
		go func() {
			if err := hub.ListenAndServe(appContext, opts.listen); err != nil {
				appQuit(fmt.Errorf("readout feed: %w", err))
			}
		}()
	}

	gtk.Init(&os.Args)
	app, err := gtk.ApplicationNew("com.github.stewi1014.shaderviewer", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	app.Connect("activate", func() {
		client, listener := ipc.NewPipeListener()

		renderWindow := NewRenderWindow(app, client, appContext, appQuit, RenderOptions{
			Shader:     shader,
			Iterations: opts.iterations,
			Hub:        hub,
		})
		if renderWindow == nil {
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle("Shader Viewer")

		configWindow := NewConfigWindow(app, listener, appContext, appQuit, store)
		if configWindow == nil {
			return
		}
		configWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		configWindow.SetTitle("Shader Viewer Controls")
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)
	appQuit(nil)
	return context.Cause(appContext)
}
