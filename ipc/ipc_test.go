package ipc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stewi1014/shaderviewer/navigator"
	"github.com/stewi1014/shaderviewer/programs"
)

func direct(f func()) { f() }

func TestPipeListener(t *testing.T) {
	client, listener := NewPipeListener()
	defer client.Close()

	server, err := listener.Accept()
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	go client.Write([]byte("ping"))
	buf := make([]byte, 4)
	if _, err := server.Read(buf); err != nil || string(buf) != "ping" {
		t.Fatalf("Read() = %q, %v", buf, err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := listener.Accept()
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("second Accept returned before Close")
	case <-time.After(20 * time.Millisecond):
	}

	listener.Close()
	listener.Close()
	if err := <-done; !errors.Is(err, net.ErrClosed) {
		t.Errorf("Accept after Close = %v, want net.ErrClosed", err)
	}
}

func TestPeers(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	client, listener := NewPipeListener()
	server, err := listener.Accept()
	if err != nil {
		t.Fatal(err)
	}

	toRender := make(chan any, 8)
	toConfig := make(chan any, 8)
	render := NewPeer(ctx, client, cancel, direct, func(msg any) { toRender <- msg })
	config := NewPeer(ctx, server, cancel, direct, func(msg any) { toConfig <- msg })

	u := &programs.Uniforms{MaxIterations: 250, JRe: 0.5}
	config.Send(SelectShader{ID: "julia-sin"})
	config.Send(u)
	render.Send(navigator.Readout{MinReal: -2, ZoomLevel: 4})
	render.Send(ShaderLoaded{ID: "julia-sin", Julia: true, Uniforms: *u})

	recv := func(ch chan any) any {
		t.Helper()
		select {
		case msg := <-ch:
			return msg
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a message")
			return nil
		}
	}

	if msg, ok := recv(toRender).(SelectShader); !ok || msg.ID != "julia-sin" {
		t.Errorf("render got %#v, want SelectShader", msg)
	}
	if msg, ok := recv(toRender).(*programs.Uniforms); !ok || *msg != *u {
		t.Errorf("render got %#v, want uniforms %+v", msg, *u)
	}
	if msg, ok := recv(toConfig).(navigator.Readout); !ok || msg.ZoomLevel != 4 {
		t.Errorf("config got %#v, want readout", msg)
	}
	if msg, ok := recv(toConfig).(ShaderLoaded); !ok || msg.Uniforms.MaxIterations != 250 {
		t.Errorf("config got %#v, want ShaderLoaded", msg)
	}

	if err := context.Cause(ctx); err != nil {
		t.Errorf("peers quit with %v", err)
	}
}

func TestPeerQuitsOnClose(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	client, server := net.Pipe()
	NewPeer(ctx, client, cancel, direct, func(any) {})
	server.Close()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("peer did not quit when the other end closed")
	}
	if err := context.Cause(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cause = %v, want context.Canceled", err)
	}
}

func TestKnown(t *testing.T) {
	for _, msg := range []any{SelectShader{}, ShaderLoaded{}, SaveRequest{}, navigator.Readout{}, &programs.Uniforms{}} {
		if !Known(msg) {
			t.Errorf("Known(%T) = false", msg)
		}
	}
	if Known(programs.Uniforms{}) {
		t.Error("Known(programs.Uniforms) = true, want pointer only")
	}
}
