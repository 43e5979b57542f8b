// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Live game feed over WebSocket: GET /ws.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine.
//   - Database persistence for finished games and user stats.
//
// Notes:
//   - The server is a presentation collaborator: it calls the game
//     engine's operations and reflects the resulting state. All rules
//     live in internal/game.
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid
//     token is present; routes still run for guests.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wordgames/hangman-server/internal/figure"
	"github.com/wordgames/hangman-server/internal/game"
	"github.com/wordgames/hangman-server/internal/store"
	"github.com/wordgames/hangman-server/internal/words"
)

// Server bundles router, in-memory session store, DB handle, and the
// WebSocket hub.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	hub   *wsHub
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, hub: newWSHub()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","/daily/*","/auth/*","/ws"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"words": words.Stats()})
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Get("/game/{id}", s.handleGetGame)
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/hint", s.handleHint)

	// Daily challenge — OPTIONAL AUTH (guests can play; result persisted on finish)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Live game feed (spectators, UI sync)
	s.r.Get("/ws", s.handleWS)

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// gameView is the client-facing snapshot of a session. The secret word
// only appears through RenderedWord/StatusMessage, never raw.
type gameView struct {
	GameID      string      `json:"gameId"`
	Word        string      `json:"word"` // rendered form: "C A _"
	Mistakes    int         `json:"mistakes"`
	MaxMistakes int         `json:"maxMistakes"`
	Tried       []string    `json:"tried"`
	State       game.Status `json:"state"`
	Message     string      `json:"message,omitempty"`
	Figure      string      `json:"figure"`
}

func viewOf(g *game.Session) gameView {
	return gameView{
		GameID:      g.ID,
		Word:        g.RenderedWord(),
		Mistakes:    g.Mistakes,
		MaxMistakes: g.MaxMistakes,
		Tried:       g.TriedLetters(),
		State:       g.Status(),
		Message:     g.StatusMessage(),
		Figure:      figure.Render(g.Mistakes),
	}
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Word string `json:"word"` // optional fixed word (testing)
}
type newGameRes struct {
	GameID      string `json:"gameId"`
	Length      int    `json:"length"`
	MaxMistakes int    `json:"maxMistakes"`
	Word        string `json:"word"` // all underscores at this point
}

// handleNewGame creates a new in-memory session and persists a DB
// "owner" row (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	// Create session (random word by default if req.Word is empty)
	g := game.New(req.Word)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row; the secret word never hits the DB.
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO games (id, user_id, status, mistakes, started_at)
		                     VALUES (?,?,?,0,?)`, g.ID, me.ID, game.StatusInProgress, now)
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, status, mistakes, started_at)
		                     VALUES (?,?,?,0,?)`, g.ID, anon, game.StatusInProgress, now)
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
		}
	}

	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:      g.ID,
		Length:      len(g.Word),
		MaxMistakes: g.MaxMistakes,
		Word:        g.RenderedWord(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}
type guessRes struct {
	Correct  bool      `json:"correct"`
	Revealed []int     `json:"revealed"`
	Part     game.Part `json:"part,omitempty"`
	gameView
}

// handleGuess applies a letter to an in-memory session, persists
// progress, broadcasts the new state to WebSocket watchers, and (if
// finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	out, err := g.Guess(req.Letter)
	switch {
	case errors.Is(err, game.ErrInvalidLetter):
		http.Error(w, `{"error":"invalid_letter"}`, http.StatusBadRequest)
		return
	case errors.Is(err, game.ErrGameOver):
		// Informational: the session is terminal and was not modified.
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "game_over",
			"state":   g.Status(),
			"message": g.StatusMessage(),
		})
		return
	case err != nil:
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist counters/history (best effort, non-fatal if it fails)
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, _ := s.db.Begin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET mistakes=? WHERE id=? AND `+ownerClause, g.Mistakes, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update mistakes")
	}

	if st := g.Status(); st == game.StatusWon || st == game.StatusLost {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			st, time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, st == game.StatusWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()

	// Push the fresh snapshot to anyone watching this game.
	s.hub.broadcast(g.ID, viewOf(g))

	_ = json.NewEncoder(w).Encode(guessRes{
		Correct:  out.Correct,
		Revealed: out.Revealed,
		Part:     out.Part,
		gameView: viewOf(g),
	})
}

// handleGetGame returns the current snapshot of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(g))
}

// handleHint suggests one still-hidden letter. The suggestion does not
// change game state; clients decide whether hints cost anything.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if g.Status() != game.StatusInProgress {
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}
	h, ok := g.Hint()
	if !ok {
		http.Error(w, `{"error":"no_hint"}`, http.StatusConflict)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"hint": h})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
