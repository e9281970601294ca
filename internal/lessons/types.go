package lessons

// Lesson is a generated review module for one curriculum week.
type Lesson struct {
	Title      string           `json:"title"`
	Overview   string           `json:"overview"`
	Sections   []Section        `json:"sections"`
	References []Reference      `json:"references"`
	KeyTerms   []string         `json:"keyTerms"`
	Dictionary []VocabularyItem `json:"dictionary"`
	StudyTips  []string         `json:"studyTips"`
}

// Section is a titled run of content blocks.
type Section struct {
	Title                string  `json:"title"`
	Blocks               []Block `json:"contentBlocks"`
	VisualAidDescription string  `json:"visualAidDescription,omitempty"`
}

// BlockKind tags the payload carried by a Block.
type BlockKind string

const (
	KindParagraph BlockKind = "paragraph"
	KindExample   BlockKind = "example"
	KindQuestion  BlockKind = "question"
)

// Block is one piece of section content. Exactly one of Text, Example or
// Question is set, matching Kind.
type Block struct {
	Kind     BlockKind `json:"type"`
	Text     string    `json:"text,omitempty"`
	Example  *Example  `json:"example,omitempty"`
	Question *Question `json:"question,omitempty"`
}

// Difficulty labels an example scenario.
type Difficulty string

const (
	Easy     Difficulty = "Easy"
	Moderate Difficulty = "Moderate"
	Hard     Difficulty = "Hard"
	Tricky   Difficulty = "Tricky"
)

// Known reports whether d is one of the four recognised labels.
func (d Difficulty) Known() bool {
	switch d {
	case Easy, Moderate, Hard, Tricky:
		return true
	}
	return false
}

// Example is a worked scenario.
type Example struct {
	Difficulty Difficulty `json:"difficulty"`
	Problem    string     `json:"problem"`
	Solution   string     `json:"solution"`
	Reasoning  string     `json:"reasoning"`
}

// Question is a mastery check with a hint and a full answer.
type Question struct {
	Question string `json:"question"`
	Hint     string `json:"hint"`
	Answer   string `json:"answer"`
}

// VocabularyItem is one dictionary row.
type VocabularyItem struct {
	Term          string `json:"term"`
	Pronunciation string `json:"pronunciation"`
	Definition    string `json:"definition"`
}

// Reference is an external learning resource.
type Reference struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Paragraphs returns the text of every paragraph block in the section.
func (s Section) Paragraphs() []string {
	var out []string
	for _, b := range s.Blocks {
		if b.Kind == KindParagraph {
			out = append(out, b.Text)
		}
	}
	return out
}

// Recap is a condensed quick-review card for a lesson.
type Recap struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// Visual is a generated diagram.
type Visual struct {
	Data     []byte
	MIMEType string
	Model    string
}

// Ext returns a file extension for the visual's MIME type.
func (v *Visual) Ext() string {
	switch v.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
