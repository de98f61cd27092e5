// Package sse streams catalog change notifications to browsers as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types written to the stream.
const (
	EventState    = "catalog.state"
	EventReloaded = "catalog.reloaded"
	EventFacets   = "facets.updated"
)

const (
	clientBuffer     = 64
	defaultThrottle  = 2 * time.Second
	defaultKeepAlive = 15 * time.Second
)

// ReloadInfo describes the catalog snapshot a client should be showing.
type ReloadInfo struct {
	Fingerprint string `json:"fingerprint"`
	Total       int    `json:"total"`
	Malformed   int    `json:"malformed"`
}

type reloadReq struct {
	info      ReloadInfo
	broadcast bool
}

// Broker fans catalog reloads out to SSE clients.
//
// A single loop goroutine owns the client set, the last known ReloadInfo
// and the facets throttle; public methods talk to it over channels. The
// reload channel is unbuffered so a Subscribe issued after SetState or
// PublishReload returns always sees that state.
type Broker struct {
	facetsMin time.Duration
	keepAlive time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	reloadCh      chan reloadReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. facets.updated is sent at most once per
// facetsThrottle; a non-positive value selects two seconds.
func NewBroker(facetsThrottle time.Duration) *Broker {
	if facetsThrottle <= 0 {
		facetsThrottle = defaultThrottle
	}

	b := &Broker{
		facetsMin:     facetsThrottle,
		keepAlive:     defaultKeepAlive,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		reloadCh:      make(chan reloadReq),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq        uint64
		state      *ReloadInfo
		lastFacets time.Time
	)

	frame := func(kind string, data any) []byte {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil
		}
		seq++
		return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, kind, payload))
	}
	send := func(ch chan []byte, msg []byte) {
		select {
		case ch <- msg:
		default:
			// slow client; drop rather than stall the loop
		}
	}
	broadcast := func(kind string, data any) {
		msg := frame(kind, data)
		if msg == nil {
			return
		}
		for ch := range clients {
			send(ch, msg)
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}
			if state != nil {
				if msg := frame(EventState, *state); msg != nil {
					send(ch, msg)
				}
			}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case req := <-b.reloadCh:
			info := req.info
			state = &info
			if !req.broadcast {
				continue
			}
			broadcast(EventReloaded, info)

			if now := time.Now(); now.Sub(lastFacets) >= b.facetsMin {
				lastFacets = now
				broadcast(EventFacets, map[string]string{"fingerprint": info.Fingerprint})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. If the catalog state is known the first
// message on the channel is a catalog.state event.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// SetState records the current catalog without notifying anyone. Used to
// seed the broker with the snapshot loaded at startup.
func (b *Broker) SetState(info ReloadInfo) {
	b.enqueue(reloadReq{info: info})
}

// PublishReload records info as the current catalog and broadcasts
// catalog.reloaded plus a throttled facets.updated.
func (b *Broker) PublishReload(info ReloadInfo) {
	b.enqueue(reloadReq{info: info, broadcast: true})
}

func (b *Broker) enqueue(req reloadReq) {
	if b.closed.Load() {
		return
	}
	select {
	case b.reloadCh <- req:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one client until it disconnects or the
// broker closes. Idle streams get a comment line every keep-alive period.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.keepAlive)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
