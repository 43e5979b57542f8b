package figure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgression(t *testing.T) {
	empty := Render(0)
	assert.NotContains(t, empty, "O", "no head before the first mistake")

	head := Render(1)
	assert.Contains(t, head, "O")
	assert.NotContains(t, head, `/`)

	full := Render(6)
	assert.Contains(t, full, "O")
	assert.Contains(t, full, `/|\`)
	assert.Contains(t, full, `/ \`)
}

func TestRenderEachStageDiffers(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i <= MaxStage; i++ {
		s := Render(i)
		assert.False(t, seen[s], "stage %d repeats an earlier drawing", i)
		seen[s] = true
	}
}

func TestRenderConstantHeight(t *testing.T) {
	lines := len(strings.Split(Render(0), "\n"))
	for i := 1; i <= MaxStage; i++ {
		assert.Equal(t, lines, len(strings.Split(Render(i), "\n")), "stage %d", i)
	}
}

func TestRenderClamps(t *testing.T) {
	assert.Equal(t, Render(0), Render(-3))
	assert.Equal(t, Render(MaxStage), Render(99))
}
