package progress

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// upgrader mirrors the corpus's websocket handler: origin checks disabled
// for a local/internal progress feed, generous buffers for JSON events.
var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// WebsocketSink broadcasts each progress event as a JSON message to every
// connected client. It is JSON-only by design: spec.md §1 excludes a
// human-readable progress UI, so this never renders anything, only emits
// machine-consumable events a caller's own UI could subscribe to.
type WebsocketSink struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewWebsocketSink creates an empty broadcaster.
func NewWebsocketSink() *WebsocketSink {
	return &WebsocketSink{conns: make(map[*websocket.Conn]struct{})}
}

// Handler upgrades incoming HTTP requests to websocket connections and
// registers them as broadcast targets until the client disconnects.
func (s *WebsocketSink) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		// Block on reads purely to detect disconnects; the client never
		// sends anything meaningful on this feed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.conns, conn)
				s.mu.Unlock()
				conn.Close()
				return
			}
		}
	}
}

func (s *WebsocketSink) Report(_ context.Context, ev Event) {
	data, err := Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(s.conns, conn)
			conn.Close()
		}
	}
}

func (s *WebsocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
	return nil
}
