package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinesSkipsBlanksAndUppercases(t *testing.T) {
	in := "apple\n\n  banana  \n\t\n# comment\nCherry\n"
	got := parseLines(in)
	assert.Equal(t, []string{"APPLE", "BANANA", "CHERRY"}, got)
}

func TestNormalizeWord(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"apple", "APPLE", true},
		{"  cat  ", "CAT", true},
		{"", "", false},
		{"   ", "", false},
		{"\t", "", false},
		{"# note", "", false},
	}
	for _, c := range cases {
		got, ok := normalizeWord(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestPickFallsBackWhenEmpty(t *testing.T) {
	// An empty or unavailable source must yield the fixed fallback word.
	assert.Equal(t, "JAVA", pick(nil))
	assert.Equal(t, "JAVA", pick([]string{}))
}

func TestPickDrawsFromCandidates(t *testing.T) {
	candidates := []string{"ALPHA", "BRAVO", "DELTA"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, candidates, pick(candidates))
	}
}

func TestPickSingleCandidate(t *testing.T) {
	assert.Equal(t, "SOLO", pick([]string{"SOLO"}))
}

func TestReadWordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("dog\n\n cat \n"), 0o644))

	got, err := readWordFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOG", "CAT"}, got)
}

func TestReadWordFileMissing(t *testing.T) {
	_, err := readWordFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestEmbeddedDefaultsAreUsable(t *testing.T) {
	got := parseLines(embeddedWords)
	assert.NotEmpty(t, got)
	for _, w := range got {
		assert.NotEmpty(t, w)
		assert.Equal(t, strings.ToUpper(w), w, "embedded words normalize to uppercase")
	}
}
