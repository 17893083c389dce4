package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "dolo 650", Normalize("  Dolo   650 "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "paracetamol 500mg", Normalize("Paracetamol\t500MG"))
}

func TestTokenize(t *testing.T) {
	t.Run("lower-cases, hyphen becomes space, multi-space collapses", func(t *testing.T) {
		assert.Equal(t, []string{"para", "cetamol", "500"}, Tokenize("Para-cetamol  500"))
	})

	t.Run("single-character tokens are dropped", func(t *testing.T) {
		assert.Equal(t, []string{"dolo", "650"}, Tokenize("Dolo 650 B"))
	})

	t.Run("falls back to whole phrase when no token survives", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, Tokenize("B"))
	})

	t.Run("blank input yields no tokens", func(t *testing.T) {
		assert.Nil(t, Tokenize("   "))
	})
}

func TestOverlapScore(t *testing.T) {
	t.Run("counts distinct tokens present", func(t *testing.T) {
		hay := Haystack("Dolo 650", "", "Paracetamol", "")
		assert.Equal(t, 2, OverlapScore(hay, []string{"paracetamol", "650"}))
	})

	t.Run("token contributes once regardless of haystack repeats", func(t *testing.T) {
		hay := Haystack("Paracetamol", "Paracetamol 500mg", "Paracetamol", "")
		assert.Equal(t, 1, OverlapScore(hay, []string{"paracetamol"}))
	})

	t.Run("case-insensitive containment", func(t *testing.T) {
		hay := Haystack("DOLO 650")
		assert.Equal(t, 1, OverlapScore(hay, []string{"DoLo"}))
	})

	t.Run("no tokens means zero score", func(t *testing.T) {
		assert.Equal(t, 0, OverlapScore("anything", nil))
	})
}
