package lessons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/masterreview/internal/curriculum"
)

func highlighted(segs []Segment) []string {
	var out []string
	for _, s := range segs {
		if s.Highlight {
			out = append(out, s.Text)
		}
	}
	return out
}

func joined(segs []Segment) string {
	var s string
	for _, seg := range segs {
		s += seg.Text
	}
	return s
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**Bold** text", "Bold text"},
		{"Answer: 42", "42"},
		{"  HINT: look left ", "look left"},
		{"question: why? rationale: because", "why?  because"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), tt.in)
	}
}

func TestHighlighter_FirstOccurrenceOnly(t *testing.T) {
	h := NewHighlighter([]string{"osmosis", "cell"})

	segs := h.Segments("Osmosis moves water. Osmosis is passive in every cell.")
	assert.Equal(t, []string{"Osmosis", "cell"}, highlighted(segs))
	assert.Equal(t, "Osmosis moves water. Osmosis is passive in every cell.", joined(segs))

	segs = h.Segments("A cell undergoing osmosis.")
	assert.Empty(t, highlighted(segs), "seen set carries across calls")

	h.Reset()
	segs = h.Segments("A cell undergoing osmosis.")
	assert.Equal(t, []string{"cell", "osmosis"}, highlighted(segs))
}

func TestHighlighter_LongestTermFirst(t *testing.T) {
	h := NewHighlighter([]string{"cell", "cell wall"})
	segs := h.Segments("The cell wall is rigid.")
	require.Len(t, segs, 3)
	assert.Equal(t, "cell wall", segs[1].Text)
	assert.Equal(t, "cell wall", segs[1].Term)
	assert.True(t, segs[1].Highlight)
}

func TestHighlighter_WordBoundary(t *testing.T) {
	h := NewHighlighter([]string{"cell"})
	segs := h.Segments("Cellular cells excel.")
	assert.Empty(t, highlighted(segs))
}

func TestHighlighter_EscapesTerms(t *testing.T) {
	h := NewHighlighter([]string{"pH (acidity) scale", ""})
	segs := h.Segments("Measure the pH (acidity) scale now.")
	assert.Equal(t, []string{"pH (acidity) scale"}, highlighted(segs))
}

func TestHighlighter_NoTerms(t *testing.T) {
	h := NewHighlighter(nil)
	assert.Equal(t, []Segment{{Text: "Answer text"}}, h.Segments("**Answer:** Answer text"))
	assert.Nil(t, h.Segments("  "))
}

func TestSplitRationale(t *testing.T) {
	tests := []struct {
		in, answer, rationale string
	}{
		{"The wall resists. RATIONALE: turgor balance", "The wall resists.", "turgor balance"},
		{"Yes. Rationale because it is", "Yes.", "because it is"},
		{"Only an answer", "Only an answer", ""},
	}
	for _, tt := range tests {
		a, r := SplitRationale(tt.in)
		assert.Equal(t, tt.answer, a)
		assert.Equal(t, tt.rationale, r)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Mastery Checkpoint", QuestionLabel(curriculum.LevelJHS))
	assert.Equal(t, "Technical Appraisal", QuestionLabel(curriculum.LevelSHS))
	assert.Equal(t, "Technical Appraisal", QuestionLabel(curriculum.LevelSpecialized))
	assert.Equal(t, "Academic Case Study", ExampleLabel(curriculum.LevelSHS))
	assert.Equal(t, "Discovery Lab Scenario", ExampleLabel(curriculum.LevelJHS))
}
