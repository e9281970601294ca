package lessons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLesson = `# Cell Structure and Function

Cells are the basic units of life, and every living organism is built from them.

## Foundational Principles
The cell membrane controls what enters and leaves the cell.
Organelles such as the $nucleus$ and \mitochondria work together.

## Strategic Discussion
Osmosis moves water across a selectively permeable membrane.

::: Hard
**Problem:** A farmer notices that lettuce leaves wilt after being soaked in salty water overnight before the market opens.
Explain what happened to the cells.
**Solution:** Water left the cells by osmosis.
Reasoning: Water moves toward the higher solute concentration.

## Real-World Nuance
Doctors rely on isotonic saline for intravenous drips.

## Mastery Synthesis
??? Why do plant cells not burst in fresh water? | Think about the cell wall. | The rigid wall resists pressure. RATIONALE: Turgor is balanced by the wall.
??? Incomplete question | only hint

DICTIONARY:
Osmosis | os-MOH-sis | Movement of water across a membrane.

Cell Wall | sel wawl | Rigid outer layer of plant cells.
osmosis | dup | Duplicate row.
Not a row
KEY_TERMS: [Osmosis, Cell Wall, Nucleus, osmosis, ]
STUDY_TIPS: 1. Draw the cell [SEP] 2. Make flashcards [SEP] Teach a friend
VISUAL_PROMPT: Cross-section of a plant cell: labelled organelles`

func TestParse_FullLesson(t *testing.T) {
	l := Parse(sampleLesson, "Science")

	assert.Equal(t, "Cell Structure and Function", l.Title)
	assert.Equal(t, "Cells are the basic units of life, and every living organism is built from them.", l.Overview)
	assert.Equal(t, DefaultReferences, l.References)
	assert.Equal(t, []string{"Osmosis", "Cell Wall", "Nucleus"}, l.KeyTerms)
	assert.Equal(t, []string{"Draw the cell", "Make flashcards", "Teach a friend"}, l.StudyTips)

	require.Len(t, l.Dictionary, 2)
	assert.Equal(t, VocabularyItem{Term: "Osmosis", Pronunciation: "os-MOH-sis", Definition: "Movement of water across a membrane."}, l.Dictionary[0])
	assert.Equal(t, "Cell Wall", l.Dictionary[1].Term)

	titles := make([]string, len(l.Sections))
	for i, s := range l.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Unit Overview", "Foundational Principles", "Strategic Discussion", "Real-World Nuance", "Mastery Synthesis"}, titles)
}

func TestParse_StripsMathMarkup(t *testing.T) {
	l := Parse(sampleLesson, "Science")
	require.True(t, len(l.Sections) > 1)
	assert.Equal(t, "Organelles such as the nucleus and mitochondria work together.", l.Sections[1].Blocks[1].Text)
}

func TestParse_VisualAttachesToSecondSection(t *testing.T) {
	l := Parse(sampleLesson, "Science")
	require.True(t, len(l.Sections) > 2)
	assert.Empty(t, l.Sections[0].VisualAidDescription)
	assert.Equal(t, "Cross-section of a plant cell: labelled organelles", l.Sections[1].VisualAidDescription)
	assert.Empty(t, l.Sections[2].VisualAidDescription)
}

func TestParse_Example(t *testing.T) {
	l := Parse(sampleLesson, "Science")
	s := l.Sections[2]
	require.Len(t, s.Blocks, 2)
	require.Equal(t, KindExample, s.Blocks[1].Kind)

	ex := s.Blocks[1].Example
	assert.Equal(t, Hard, ex.Difficulty)
	assert.Equal(t, "A farmer notices that lettuce leaves wilt after being soaked in salty water overnight before the market opens. Explain what happened to the cells.", ex.Problem)
	assert.Equal(t, "Water left the cells by osmosis.", ex.Solution)
	assert.Equal(t, "Water moves toward the higher solute concentration.", ex.Reasoning)
}

func TestParse_Questions(t *testing.T) {
	l := Parse(sampleLesson, "Science")
	s := l.Sections[4]
	require.Len(t, s.Blocks, 1, "malformed question and dictionary rows are dropped")
	q := s.Blocks[0].Question
	require.NotNil(t, q)
	assert.Equal(t, "Why do plant cells not burst in fresh water?", q.Question)
	assert.Equal(t, "Think about the cell wall.", q.Hint)
	assert.Equal(t, "The rigid wall resists pressure. RATIONALE: Turgor is balanced by the wall.", q.Answer)
}

func TestParse_Fallbacks(t *testing.T) {
	l := Parse("", "Mathematics")
	assert.Equal(t, "Mathematics", l.Title)
	assert.Equal(t, "Curriculum Unit", l.Overview)
	assert.Empty(t, l.Sections)
	assert.Empty(t, l.KeyTerms)
	assert.Empty(t, l.StudyTips)
	assert.Empty(t, l.Dictionary)
	assert.Len(t, l.References, 1)
}

func TestParse_ShortOverviewSkipped(t *testing.T) {
	l := Parse("# T\nShort intro.\n", "x")
	assert.Equal(t, "Curriculum Unit", l.Overview)
	require.Len(t, l.Sections, 1)
	assert.Equal(t, "Unit Overview", l.Sections[0].Title)
}

func TestParse_EmptySectionsDropped(t *testing.T) {
	l := Parse("## Empty\n## Filled\nSome body text here.\n", "x")
	require.Len(t, l.Sections, 1)
	assert.Equal(t, "Filled", l.Sections[0].Title)
}

func TestParse_ExampleDefaults(t *testing.T) {
	problem := strings.Repeat("a long scenario ", 5)
	text := ":::\nProblem: " + problem + "\n## Next\nbody"
	l := Parse(text, "x")
	require.NotEmpty(t, l.Sections)
	ex := l.Sections[0].Blocks[0].Example
	require.NotNil(t, ex)
	assert.Equal(t, Moderate, ex.Difficulty)
	assert.Equal(t, "Logic summary pending", ex.Solution)
	assert.Equal(t, "Theoretical basis", ex.Reasoning)
}

func TestParse_ShortExampleDropped(t *testing.T) {
	l := Parse("Intro paragraph that is long enough.\n::: Easy\nProblem: too short\nSolution: x\n", "x")
	require.Len(t, l.Sections, 1)
	require.Len(t, l.Sections[0].Blocks, 1)
	assert.Equal(t, KindParagraph, l.Sections[0].Blocks[0].Kind)
}

func TestParse_UnknownDifficultyKept(t *testing.T) {
	problem := strings.Repeat("x", 60)
	l := Parse("::: Brutal\nproblem: "+problem, "x")
	ex := l.Sections[0].Blocks[0].Example
	require.NotNil(t, ex)
	assert.Equal(t, Difficulty("Brutal"), ex.Difficulty)
	assert.False(t, ex.Difficulty.Known())
}

func TestParse_ExampleStopsAtDictionary(t *testing.T) {
	problem := strings.Repeat("y", 60)
	text := "::: Tricky\nProblem: " + problem + "\nDICTIONARY:\nTerm | p | d\nKEY_TERMS: Term"
	l := Parse(text, "x")
	require.Len(t, l.Sections, 1)
	require.Len(t, l.Sections[0].Blocks, 1)
	assert.Equal(t, problem, l.Sections[0].Blocks[0].Example.Problem)
}

func TestParse_DictionaryWithoutTerminatorSwallowsRest(t *testing.T) {
	text := "Intro paragraph that is long enough.\nDICTIONARY:\nA | b | c\nTrailing prose line"
	l := Parse(text, "x")
	require.Len(t, l.Sections, 1)
	assert.Len(t, l.Sections[0].Blocks, 1)
	require.Len(t, l.Dictionary, 1)
}

func TestParse_DictionaryStopsAtHeading(t *testing.T) {
	text := "DICTIONARY:\nA | b | c\n## Later\nB | e | f\nKEY_TERMS: A"
	l := Parse(text, "x")
	require.Len(t, l.Dictionary, 1)
	assert.Equal(t, "A", l.Dictionary[0].Term)
}

func TestParse_CRLF(t *testing.T) {
	l := Parse("# Title\r\nA paragraph long enough to be the overview.\r\n", "x")
	assert.Equal(t, "Title", l.Title)
	assert.Equal(t, "A paragraph long enough to be the overview.", l.Overview)
}
