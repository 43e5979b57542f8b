// internal/game/session.go
//
// Core game engine for a single hangman session.
// Responsibilities:
//   - Create new sessions with a fixed mistake budget (6).
//   - Validate and apply letter guesses (exactly one ASCII letter).
//   - Reveal matching word positions; count wrong guesses.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - The secret word is provided by the words package unless a fixed
//     word is supplied (tests and the daily mode do this).
//   - Repeat guesses are re-scored: guessing the same wrong letter
//     twice costs two mistakes. Callers that want dedup semantics can
//     consult Tried before calling Guess.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"github.com/wordgames/hangman-server/internal/words"
)

const defaultMaxMistakes = 6

var (
	// ErrGameOver is returned for a guess submitted after the session
	// reached a terminal state. The session is not modified.
	ErrGameOver = errors.New("game over")

	// ErrInvalidLetter is returned when the input is not exactly one
	// ASCII alphabetic character. The session is not modified.
	ErrInvalidLetter = errors.New("invalid letter")
)

// New constructs a new game session.
// If withWord is empty, a random word is chosen from the words package.
func New(withWord string) *Session {
	w := strings.ToUpper(strings.TrimSpace(withWord))
	if w == "" {
		w = words.RandomWord()
	}
	return &Session{
		ID:          randomID(),
		Word:        w,
		Guessed:     make([]bool, len(w)),
		MaxMistakes: defaultMaxMistakes,
		Tried:       make(map[byte]bool),
	}
}

// Status derives the session state from the reveal mask and the
// mistake count. A fully revealed word wins even on the guess that
// spends the last mistake elsewhere; otherwise the budget decides.
func (s *Session) Status() Status {
	if s.allRevealed() {
		return StatusWon
	}
	if s.Mistakes >= s.MaxMistakes {
		return StatusLost
	}
	return StatusInProgress
}

// Guess applies a single letter guess, mutating the session.
//
// Validation rules:
//   - The session must not be finished (ErrGameOver).
//   - letter must be exactly one ASCII alphabetic character,
//     case-insensitive (ErrInvalidLetter).
//
// Scoring:
//   - Every position holding the letter is revealed. A guess is correct
//     if the word contains the letter at all, so repeating a correct
//     letter stays correct even though it reveals nothing new.
//   - A wrong guess increments Mistakes, repeats included.
func (s *Session) Guess(letter string) (Outcome, error) {
	if st := s.Status(); st != StatusInProgress {
		return Outcome{Mistakes: s.Mistakes, Status: st}, ErrGameOver
	}
	c, ok := normalizeLetter(letter)
	if !ok {
		return Outcome{Mistakes: s.Mistakes, Status: StatusInProgress}, ErrInvalidLetter
	}

	var revealed []int
	for i := 0; i < len(s.Word); i++ {
		if s.Word[i] == c && !s.Guessed[i] {
			s.Guessed[i] = true
			revealed = append(revealed, i)
		}
	}
	correct := strings.IndexByte(s.Word, c) >= 0
	if !correct {
		s.Mistakes++
	}
	s.Tried[c] = true

	out := Outcome{
		Correct:  correct,
		Mistakes: s.Mistakes,
		Status:   s.Status(),
		Revealed: revealed,
	}
	if !correct {
		out.Part = PartForMistakes(s.Mistakes)
	}
	return out, nil
}

// RenderedWord returns the display form of the word: revealed letters,
// underscores for hidden positions, space separated ("C A T", "_ _ _").
func (s *Session) RenderedWord() string {
	out := make([]string, len(s.Word))
	for i := 0; i < len(s.Word); i++ {
		if s.Guessed[i] {
			out[i] = string(s.Word[i])
		} else {
			out[i] = "_"
		}
	}
	return strings.Join(out, " ")
}

// StatusMessage returns the terminal message for a finished session, or
// "" while the game is in progress. Both the win and the loss message
// disclose the secret word.
func (s *Session) StatusMessage() string {
	switch s.Status() {
	case StatusWon:
		return "Congratulations! You've guessed the word: " + s.Word
	case StatusLost:
		return "Game over! The secret word was: " + s.Word
	}
	return ""
}

// Hint returns a random letter that would reveal at least one hidden
// position, or false when the word is fully revealed. The session is
// not modified; whether a hint costs anything is the caller's policy.
func (s *Session) Hint() (string, bool) {
	var candidates []byte
	seen := map[byte]bool{}
	for i, g := range s.Guessed {
		c := s.Word[i]
		if !g && !seen[c] {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	return string(candidates[nBig.Int64()]), true
}

// TriedLetters returns the guessed letters in alphabetical order.
func (s *Session) TriedLetters() []string {
	out := make([]string, 0, len(s.Tried))
	for c := 'A'; c <= 'Z'; c++ {
		if s.Tried[byte(c)] {
			out = append(out, string(c))
		}
	}
	return out
}

func (s *Session) allRevealed() bool {
	for _, g := range s.Guessed {
		if !g {
			return false
		}
	}
	return true
}

// normalizeLetter uppercases a one-letter guess, rejecting anything
// that is not exactly one ASCII letter after trimming.
func normalizeLetter(s string) (byte, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 'A', true
	case c >= 'A' && c <= 'Z':
		return c, true
	}
	return 0, false
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
