// internal/figure/figure.go
//
// Text renderer for the gallows drawing. This is the presentation side
// of the mistake counter: the engine reports how many wrong guesses
// were made and which body part that reveals; this package owns the
// visual mapping and holds no game logic.
//
// Parts appear in the engine's fixed order: head, body, arm1, arm2,
// leg1, leg2 (mistakes 1 through 6).

package figure

// stages holds the drawing for each mistake count 0..6.
var stages = [...]string{
	`  +---+
  |   |
      |
      |
      |
      |
=========`,
	`  +---+
  |   |
  O   |
      |
      |
      |
=========`,
	`  +---+
  |   |
  O   |
  |   |
      |
      |
=========`,
	`  +---+
  |   |
  O   |
 /|   |
      |
      |
=========`,
	`  +---+
  |   |
  O   |
 /|\  |
      |
      |
=========`,
	`  +---+
  |   |
  O   |
 /|\  |
 /    |
      |
=========`,
	`  +---+
  |   |
  O   |
 /|\  |
 / \  |
      |
=========`,
}

// MaxStage is the highest mistake count with a distinct drawing.
const MaxStage = len(stages) - 1

// Render returns the gallows drawing for a mistake count. Counts are
// clamped to the valid range so callers never get an empty drawing.
func Render(mistakes int) string {
	if mistakes < 0 {
		mistakes = 0
	}
	if mistakes > MaxStage {
		mistakes = MaxStage
	}
	return stages[mistakes]
}
