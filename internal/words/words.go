// internal/words/words.go
//
// Word list management for the hangman engine.
//
// Responsibilities:
//   - Load the secret word list from an environment-provided file or
//     fall back to the embedded default list.
//   - Supply RandomWord for new sessions, List for the daily mode, and
//     Stats for diagnostics.
//
// Initialization behavior (Init):
//   1. If WORDS_FILE is set, load one word per line from that file.
//   2. Otherwise use the embedded default list (default_words.txt).
//
// Constraints:
//   • Lines are trimmed; blank and comment lines are skipped.
//   • Words are normalized to uppercase.
//   • Initialization runs once (sync.Once).
//
// A missing, unreadable, or empty source is not an error for callers:
// RandomWord falls back to the fixed word "JAVA" so a game can always
// start. The condition is logged, not surfaced.

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// fallbackWord keeps the game startable when no word list is usable.
// The exact value is relied on by compatibility tests; do not change it.
const fallbackWord = "JAVA"

//go:embed default_words.txt
var embeddedWords string

var (
	initOnce sync.Once
	list     []string // secret word candidates, uppercase, load order preserved
)

// Init loads the word list exactly once. Safe to call from multiple
// places; only the first call does work.
func Init() {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			ws, err := readWordFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("word list unreadable, using fallback")
			} else {
				list = ws
			}
		} else {
			list = parseLines(embeddedWords)
		}
		if len(list) == 0 {
			log.Warn().Str("fallback", fallbackWord).Msg("no usable words loaded")
		}
	})
}

// readWordFile loads one word per line from a file, applying the same
// normalization as parseLines.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := normalizeWord(sc.Text()); ok {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// parseLines processes a multiline string into uppercase candidates.
func parseLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w, ok := normalizeWord(line); ok {
			out = append(out, w)
		}
	}
	return out
}

// normalizeWord trims and uppercases one raw line. Blank lines and
// comment lines are rejected.
func normalizeWord(line string) (string, bool) {
	w := strings.TrimSpace(line)
	if w == "" || strings.HasPrefix(w, "#") {
		return "", false
	}
	return strings.ToUpper(w), true
}

// RandomWord returns a cryptographically random word from the loaded
// list, or the fixed fallback when the list is empty.
func RandomWord() string {
	return pick(list)
}

// pick draws uniformly from candidates; empty input yields the fallback.
func pick(candidates []string) string {
	if len(candidates) == 0 {
		return fallbackWord
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	return candidates[nBig.Int64()]
}

// List returns the loaded candidates in a stable order. The daily mode
// indexes into this slice, so order must not change within a process.
func List() []string {
	return list
}

// Stats returns the number of loaded words.
func Stats() int {
	return len(list)
}
