package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// Hub fans messages out to every connected listener. Publish never blocks:
// a listener that falls behind loses messages.
type Hub struct {
	mu       sync.Mutex
	subs     map[*subscriber]struct{}
	last     []byte
	logger   *slog.Logger
	upgrader websocket.Upgrader
	dropped  uint64
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Publish queues msg for every listener and remembers it for listeners that
// connect later.
func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("feed marshal", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for s := range h.subs {
		select {
		case s.send <- data:
		default:
			h.dropped++
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped counts messages not delivered to slow listeners.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) subscribe(conn *websocket.Conn) *subscriber {
	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	if h.last != nil {
		s.send <- h.last
	}
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		s.close()
	}
	h.mu.Unlock()
}

// Close disconnects every listener.
func (h *Hub) Close() {
	h.mu.Lock()
	for s := range h.subs {
		delete(h.subs, s)
		s.close()
	}
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and streams messages until the listener
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.logger.Debug("feed listener connected", "remote", r.RemoteAddr)

	s := h.subscribe(conn)
	go h.writeLoop(s)
	h.readLoop(s)
	h.logger.Debug("feed listener left", "remote", r.RemoteAddr)
}

// readLoop discards input; it exists to notice closes and pongs.
func (h *Hub) readLoop(s *subscriber) {
	defer h.unsubscribe(s)
	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.unsubscribe(s)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unsubscribe(s)
				return
			}
		}
	}
}
