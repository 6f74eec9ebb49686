// Package remote streams the plane readout to websocket observers.
package remote

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stewi1014/shaderviewer/navigator"
)

const (
	DefaultBuffer = 16
	writeTimeout  = 5 * time.Second
)

// Message is the JSON form of a readout.
type Message struct {
	MinReal   float64 `json:"min_real"`
	MaxReal   float64 `json:"max_real"`
	MinImag   float64 `json:"min_imag"`
	MaxImag   float64 `json:"max_imag"`
	Length    float64 `json:"length"`
	ZoomLevel int64   `json:"zoom_level"`
}

func NewMessage(r navigator.Readout) Message {
	return Message{
		MinReal:   r.MinReal,
		MaxReal:   r.MaxReal,
		MinImag:   r.MinImag,
		MaxImag:   r.MaxImag,
		Length:    r.Length,
		ZoomLevel: r.ZoomLevel,
	}
}

var _ navigator.ReadoutSink = (*Hub)(nil)

// Hub fans readouts out to every connected observer.
// Publish never blocks; an observer that falls a full buffer behind is dropped.
type Hub struct {
	buffer         int
	originPatterns []string

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  *Message
}

type client struct {
	send chan Message
}

type Option func(*Hub)

// WithBuffer sets how many readouts may queue for one observer.
func WithBuffer(n int) Option {
	return func(h *Hub) { h.buffer = max(1, n) }
}

// WithOriginPatterns allows cross-origin browser clients matching patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Hub) { h.originPatterns = patterns }
}

func NewHub(options ...Option) *Hub {
	h := &Hub{
		buffer:  DefaultBuffer,
		clients: make(map[*client]struct{}),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// ShowReadout publishes r.
func (h *Hub) ShowReadout(r navigator.Readout) {
	h.Publish(NewMessage(r))
}

func (h *Hub) Publish(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &m
	for c := range h.clients {
		select {
		case c.send <- m:
		default:
			delete(h.clients, c)
			close(c.send)
			log.Println("remote: dropped slow observer")
		}
	}
}

// Clients is the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) subscribe() *client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &client{send: make(chan Message, h.buffer)}
	if h.latest != nil {
		c.send <- *h.latest
	}
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Handler serves the feed at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.CloseNow()

	// observers only listen
	ctx := conn.CloseRead(r.Context())

	c := h.subscribe()
	defer h.unsubscribe(c)

	for {
		select {
		case m, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "observer too slow")
				return
			}
			if err := write(ctx, conn, m); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, m Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, m)
}

// ListenAndServe serves the feed on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Printf("readout feed on ws://%v/ws", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
