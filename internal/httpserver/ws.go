// internal/httpserver/ws.go
//
// Live game feed over WebSocket. Spectators (or a second browser tab)
// connect with GET /ws?game=<id> and receive the session snapshot after
// every guess. The feed is read-only: guesses still go through
// POST /game/guess, so the engine stays the single mutation path.

package httpserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Same default as corsFromEnv: one configured client origin.
		return origin == "" || origin == getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	},
}

// wsHub tracks which connections watch which game.
type wsHub struct {
	mu    sync.Mutex
	conns map[string][]*websocket.Conn // keyed by game ID
}

func newWSHub() *wsHub {
	return &wsHub{conns: make(map[string][]*websocket.Conn)}
}

func (h *wsHub) add(gameID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[gameID] = append(h.conns[gameID], c)
}

func (h *wsHub) remove(gameID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	watchers := h.conns[gameID]
	for i, w := range watchers {
		if w == c {
			h.conns[gameID] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(h.conns[gameID]) == 0 {
		delete(h.conns, gameID)
	}
}

// broadcast sends v as JSON to every watcher of gameID. Dead
// connections are dropped on the next read loop exit, so write errors
// are only logged here.
func (h *wsHub) broadcast(gameID string, v any) {
	h.mu.Lock()
	watchers := append([]*websocket.Conn(nil), h.conns[gameID]...)
	h.mu.Unlock()
	for _, c := range watchers {
		if err := c.WriteJSON(v); err != nil {
			log.Debug().Err(err).Str("gameId", gameID).Msg("ws write")
		}
	}
}

// handleWS upgrades the connection and subscribes it to one game.
// The initial snapshot is sent immediately so late joiners see the
// current board.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, `{"error":"missing_game"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), gameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	s.hub.add(gameID, conn)
	_ = conn.WriteJSON(viewOf(g))

	// Read loop exists only to detect disconnects; inbound messages are
	// ignored.
	go func() {
		defer func() {
			s.hub.remove(gameID, conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
