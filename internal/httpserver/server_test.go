package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordgames/hangman-server/internal/daily"
	"github.com/wordgames/hangman-server/internal/store"
	"github.com/wordgames/hangman-server/internal/words"
)

// newTestServer spins up a server over an in-memory SQLite database
// using the real schema from sql/001_init.sql.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // one shared in-memory database
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	srv := New(store.NewMemoryStore(), db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// client returns an HTTP client with a cookie jar, so anon and auth
// cookies behave like they would in a browser.
func client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]bool
	resp := getJSON(t, client(t), ts.URL+"/health", &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out["ok"])
}

func TestGuestPlaysFullGame(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	var created newGameRes
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]string{"word": "cat"}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, created.GameID)
	assert.Equal(t, 3, created.Length)
	assert.Equal(t, 6, created.MaxMistakes)
	assert.Equal(t, "_ _ _", created.Word)

	guess := func(letter string) guessRes {
		var out guessRes
		resp := postJSON(t, c, ts.URL+"/game/guess",
			map[string]string{"gameId": created.GameID, "letter": letter}, &out)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return out
	}

	out := guess("C")
	assert.True(t, out.Correct)
	assert.Equal(t, []int{0}, out.Revealed)
	assert.Equal(t, "C _ _", out.Word)

	out = guess("Z")
	assert.False(t, out.Correct)
	assert.Equal(t, 1, out.Mistakes)
	assert.Equal(t, "head", string(out.Part))
	assert.Contains(t, out.Figure, "O")

	guess("A")
	out = guess("T")
	assert.Equal(t, "won", string(out.State))
	assert.Equal(t, "C A T", out.Word)
	assert.Contains(t, out.Message, "CAT")

	// Terminal sessions reject further guesses with a conflict.
	var over map[string]any
	resp = postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": created.GameID, "letter": "B"}, &over)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "game_over", over["error"])

	// Snapshot endpoint reflects the finished game.
	var view gameView
	resp = getJSON(t, c, ts.URL+"/game/"+created.GameID, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "won", string(view.State))
	assert.Equal(t, 1, view.Mistakes)
	assert.Equal(t, []string{"A", "C", "T", "Z"}, view.Tried)
}

func TestInvalidLetterIsBadRequest(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]string{"word": "cat"}, &created)

	for _, letter := range []string{"", "ab", "7", "!"} {
		resp := postJSON(t, c, ts.URL+"/game/guess",
			map[string]string{"gameId": created.GameID, "letter": letter}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "letter %q", letter)
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, client(t), ts.URL+"/game/guess",
		map[string]string{"gameId": "missing", "letter": "A"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHintEndpoint(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]string{"word": "go"}, &created)

	var hint map[string]string
	resp := getJSON(t, c, ts.URL+"/game/"+created.GameID+"/hint", &hint)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, []string{"G", "O"}, hint["hint"])

	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "letter": "G"}, nil)
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "letter": "O"}, nil)

	resp = getJSON(t, c, ts.URL+"/game/"+created.GameID+"/hint", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupLoginAndStats(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player1", "password": "supersecret"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me authUser
	resp = getJSON(t, c, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "player1", me.Username)

	// Win a game while authenticated; stats should bump.
	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]string{"word": "go"}, &created)
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "letter": "G"}, nil)
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "letter": "O"}, nil)

	var stats map[string]any
	resp = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 1, stats["streak"])

	// History shows the finished game.
	var mine []map[string]any
	resp = getJSON(t, c, ts.URL+"/games/mine", &mine)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mine, 1)
	assert.Equal(t, "won", mine[0]["status"])

	// Logout invalidates the cookie for gated routes.
	postJSON(t, c, ts.URL+"/auth/logout", nil, nil)
	resp = getJSON(t, c, ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login works with the same credentials.
	resp = postJSON(t, c, ts.URL+"/auth/login",
		map[string]string{"username": "player1", "password": "supersecret"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	resp := postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "x", "password": "supersecret"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player1", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player1", "password": "supersecret"}, nil)
	resp = postJSON(t, client(t), ts.URL+"/auth/signup",
		map[string]string{"username": "player1", "password": "supersecret"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWebSocketFeed(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)

	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]string{"word": "cat"}, &created)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?game=" + created.GameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	// Late joiners get the current snapshot immediately.
	var snap gameView
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "_ _ _", snap.Word)

	// Every guess pushes a fresh snapshot.
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "letter": "C"}, nil)
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "C _ _", snap.Word)
	assert.Equal(t, 0, snap.Mistakes)
}

func TestDailyChallengeFlow(t *testing.T) {
	ts := newTestServer(t)
	c := client(t)
	words.Init()

	// The daily word is deterministic: recompute it the way the server does.
	list := words.List()
	require.NotEmpty(t, list)
	idx := daily.WordIndex(time.Now().UTC(), "local_dev_salt", len(list))
	answer := list[idx]

	var created dailyNewRes
	resp := postJSON(t, c, ts.URL+"/daily/new", nil, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, created.Played)
	require.NotEmpty(t, created.GameID)
	assert.Equal(t, len(answer), created.Length)

	// Calling /daily/new again reuses the same session.
	var again dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", nil, &again)
	assert.Equal(t, created.GameID, again.GameID)

	// Guess every letter of the answer to win.
	seen := map[byte]bool{}
	var last dailyGuessRes
	for i := 0; i < len(answer); i++ {
		l := answer[i]
		if seen[l] {
			continue
		}
		seen[l] = true
		resp := postJSON(t, c, ts.URL+"/daily/guess",
			map[string]string{"gameId": created.GameID, "letter": string(l)}, &last)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, last.Correct)
	}
	assert.Equal(t, "won", string(last.State))
	assert.Equal(t, 0, last.Mistakes)

	// Finished daily games are locked.
	resp = postJSON(t, c, ts.URL+"/daily/guess",
		map[string]string{"gameId": created.GameID, "letter": "A"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The result is recorded: a new /daily/new reports played=true and
	// the leaderboard has our row.
	var replay dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", nil, &replay)
	assert.True(t, replay.Played)

	var lb struct {
		Date string        `json:"date"`
		Rows []daily.LBRow `json:"rows"`
	}
	resp = getJSON(t, c, ts.URL+"/daily/leaderboard", &lb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, lb.Rows, 1)
	assert.Equal(t, 0, lb.Rows[0].Mistakes)
}
