// internal/game/types.go
//
// Core type definitions for the hangman engine.
// Defines:
//   - Status: coarse session state (in_progress/won/lost).
//   - Part: the piece of the gallows drawing revealed by a mistake.
//   - Outcome: result of applying a single letter guess.
//   - Session: state for a single in-progress or finished game.

package game

// Status is the derived state of a session. It is computed from the
// reveal mask and mistake count on demand and never stored.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Part identifies one piece of the hangman drawing.
type Part string

const (
	PartNone Part = ""
	PartHead Part = "head"
	PartBody Part = "body"
	PartArm1 Part = "arm1"
	PartArm2 Part = "arm2"
	PartLeg1 Part = "leg1"
	PartLeg2 Part = "leg2"
)

// parts lists the drawing pieces in reveal order: parts[n-1] becomes
// visible after the nth mistake. The order is fixed and relied on by
// clients, so treat it as part of the API.
var parts = [...]Part{PartHead, PartBody, PartArm1, PartArm2, PartLeg1, PartLeg2}

// PartForMistakes maps a mistake count (1..6) to the part that count
// reveals. Counts outside that range return PartNone.
func PartForMistakes(n int) Part {
	if n < 1 || n > len(parts) {
		return PartNone
	}
	return parts[n-1]
}

// Outcome reports the effect of a single Guess call.
type Outcome struct {
	Correct  bool   `json:"correct"`
	Mistakes int    `json:"mistakes"`
	Status   Status `json:"status"`
	Revealed []int  `json:"revealed"`       // word positions uncovered by this guess
	Part     Part   `json:"part,omitempty"` // drawing part revealed by this mistake, if any
}

// Session holds the state of a single hangman game.
type Session struct {
	ID          string        // Unique session identifier (random hex string).
	Word        string        // The secret word (always uppercase).
	Guessed     []bool        // Per-position reveal flags; same length as Word.
	Mistakes    int           // Wrong guesses so far.
	MaxMistakes int           // Mistake budget (typically 6).
	Tried       map[byte]bool // Letters guessed so far (uppercase ASCII).
}
