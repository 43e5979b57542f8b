// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a letter for today's game
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Each user can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play; the result is persisted
// when the game finishes. Deterministic word selection is based on
// date + salt, so every player faces the same word.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wordgames/hangman-server/internal/daily"
	"github.com/wordgames/hangman-server/internal/game"
	"github.com/wordgames/hangman-server/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	UserID    string
	Date      string
	WordIndex int
	Game      *game.Session
	Start     time.Time
	Recorded  bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// dateKeyNow returns today's date key, deterministic word index, and word.
func (d *dailyServer) dateKeyNow() (date string, idx int, word string) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	list := words.List()
	if len(list) == 0 {
		// Same fallback path as regular games: the daily is still playable.
		return date, 0, words.RandomWord()
	}
	idx = daily.WordIndex(now, d.salt, len(list))
	return date, idx, list[idx]
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Played      bool   `json:"played"`
	Length      int    `json:"length,omitempty"`
	MaxMistakes int    `json:"maxMistakes,omitempty"`
	Word        string `json:"word,omitempty"` // rendered form
}

// handleNew creates or reuses the daily session for the current date.
// - If the user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return its snapshot.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date, idx, word := d.dateKeyNow()

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			UserID:    uid,
			Date:      date,
			WordIndex: idx,
			Game:      game.New(word),
			Start:     time.Now(),
		}
		d.sessions[key] = sess
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{
		GameID:      sess.Game.ID,
		Date:        date,
		Played:      false,
		Length:      len(sess.Game.Word),
		MaxMistakes: sess.Game.MaxMistakes,
		Word:        sess.Game.RenderedWord(),
	})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Correct  bool      `json:"correct"`
	Revealed []int     `json:"revealed"`
	Part     game.Part `json:"part,omitempty"`
	gameView
}

// handleGuess validates and applies a letter for today's daily session.
// - Ensures a matching session exists for this user and date.
// - Rejects letters after the game finished (locked).
// - Persists the result to the DB when the game ends.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if p.GameID == "" {
		http.Error(w, `{"error":"invalid"}`, http.StatusBadRequest)
		return
	}

	date, _, _ := d.dateKeyNow()

	// Find session.
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.Game.ID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}

	out, err := sess.Game.Guess(p.Letter)
	if err == game.ErrInvalidLetter {
		http.Error(w, `{"error":"invalid_letter"}`, http.StatusBadRequest)
		return
	}
	if err == game.ErrGameOver {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "locked", "state": sess.Game.Status()})
		return
	}

	// Persist the result once the game finishes.
	if st := sess.Game.Status(); st != game.StatusInProgress && !sess.Recorded {
		sess.Recorded = true
		res := daily.Result{
			UserID:    uid,
			Date:      date,
			WordIndex: sess.WordIndex,
			Mistakes:  sess.Game.Mistakes,
			ElapsedMs: int(time.Since(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", uid).Str("date", date).Msg("record daily result")
		}
	}

	_ = json.NewEncoder(w).Encode(dailyGuessRes{
		Correct:  out.Correct,
		Revealed: out.Revealed,
		Part:     out.Part,
		gameView: viewOf(sess.Game),
	})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// handleLeaderboard returns the top results for a date (default: today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
}
