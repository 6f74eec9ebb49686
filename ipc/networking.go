// Package ipc connects the render and control windows with gob messages over
// an in-process pipe.
package ipc

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"reflect"
	"sync"
)

// NewPipeListener returns the client end of a pipe and a listener that hands
// out the server end once.
func NewPipeListener() (client net.Conn, listener net.Listener) {
	clientPipe, listenerPipe := net.Pipe()
	return clientPipe, &pipeListener{
		pipe: listenerPipe,
		done: make(chan struct{}),
	}
}

type pipeListener struct {
	mu        sync.Mutex
	pipe      net.Conn
	accepted  bool
	done      chan struct{}
	closeOnce sync.Once
}

func (p *pipeListener) Accept() (net.Conn, error) {
	p.mu.Lock()
	if !p.accepted {
		p.accepted = true
		p.mu.Unlock()
		return p.pipe, nil
	}
	p.mu.Unlock()

	<-p.done
	return nil, net.ErrClosed
}

func (p *pipeListener) Close() error {
	p.closeOnce.Do(func() { close(p.done) })

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.accepted {
		return p.pipe.Close()
	}
	return nil
}

func (p *pipeListener) Addr() net.Addr {
	return p.pipe.LocalAddr()
}

// Dispatcher runs f on the thread that owns the UI.
type Dispatcher func(f func())

// Peer sends and receives messages on one end of a connection.
type Peer struct {
	ctx  context.Context
	send chan any
}

// NewPeer starts the send and receive loops on conn. Each received message is
// passed to handle through dispatch. Any connection error cancels through quit.
func NewPeer(
	ctx context.Context,
	conn net.Conn,
	quit context.CancelCauseFunc,
	dispatch Dispatcher,
	handle func(msg any),
) *Peer {
	p := &Peer{
		ctx:  ctx,
		send: make(chan any, 64),
	}

	context.AfterFunc(ctx, func() { conn.Close() })
	go p.handleSend(conn, quit)
	go p.handleReceive(conn, quit, dispatch, handle)
	return p
}

// Send queues msg. It gives up once the peer's context is done.
func (p *Peer) Send(msg any) {
	select {
	case p.send <- msg:
	case <-p.ctx.Done():
	}
}

func (p *Peer) handleSend(conn net.Conn, quit context.CancelCauseFunc) {
	enc := gob.NewEncoder(conn)

	for {
		select {
		case msg := <-p.send:
			if err := enc.Encode(&msg); err != nil {
				quit(fmt.Errorf("sending %v: %w", reflect.TypeOf(msg), err))
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Peer) handleReceive(conn net.Conn, quit context.CancelCauseFunc, dispatch Dispatcher, handle func(any)) {
	dec := gob.NewDecoder(conn)

	for {
		var msg any
		if err := dec.Decode(&msg); err != nil {
			if p.ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				quit(nil)
				return
			}
			quit(fmt.Errorf("receiving: %w", err))
			return
		}

		if !Known(msg) {
			log.Println("unknown message received", reflect.TypeOf(msg))
			continue
		}
		dispatch(func() { handle(msg) })
	}
}
