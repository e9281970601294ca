package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/masterreview/internal/curriculum"
)

// PromptInput is the curriculum context for one lesson request.
type PromptInput struct {
	Level   string
	Track   string
	Subject string
	Quarter int
	Week    string
	MELC    string
	Code    string
	Focus   string
}

// PromptInputFor builds the prompt context for a catalog unit.
func PromptInputFor(u curriculum.Unit, focus string) PromptInput {
	return PromptInput{
		Level:   string(u.Track.Level),
		Track:   u.Track.Name,
		Subject: u.Subject.Name,
		Quarter: u.Quarter,
		Week:    u.Week.Name,
		MELC:    u.Week.MELC,
		Code:    u.Week.Code,
		Focus:   strings.TrimSpace(focus),
	}
}

const languageRule = `CRITICAL SPFL RULE: This is a Foreign Language lesson. ALL examples, vocabulary, and scenarios MUST be presented in the Target Language (Script/Character) followed by [Pronunciation/Pinyin] and (English Translation). E.g., "你好 [Nǐ hǎo] (Hello)".`

const lessonGuidelines = `STRICT GUIDELINES:
1. SIMPLE LANGUAGE: Use straightforward language.
2. NARRATIVE PROSE: All sections must be detailed paragraphs.
3. SCENARIO (:::): Use marker "::: Hard". Provide a context-rich, 400-word scenario.
4. MASTERY (???): Use marker "???". Format: Question | Hint | Detailed Answer + RATIONALE.
5. DICTIONARY: Strictly format as "Term | Pronunciation/Transliteration | Definition". If not SPFL, define key technical terms.
6. STUDY TIPS: Exactly 3 unique strategies, separated by [SEP].

STRUCTURE:
# [Unit Title]
[Intro - 150 words]

## Foundational Principles
## Strategic Discussion
## Real-World Nuance

::: Hard
Problem: [The complex real-world dilemma]
Solution: [The narrative step-by-step resolution]
Reasoning: [The specific academic principle used]

## Mastery Synthesis
??? [Challenging Question] | [Conceptual Hint] | [Full Answer + RATIONALE: Pedagogical logic]

DICTIONARY:
[Term 1] | [Pronunciation/Type] | [Definition]
[Term 2] | [Pronunciation/Type] | [Definition]
[Term 3] | [Pronunciation/Type] | [Definition]
[Term 4] | [Pronunciation/Type] | [Definition]
[Term 5] | [Pronunciation/Type] | [Definition]

KEY_TERMS: [Term 1, Term 2, Term 3, Term 4, Term 5]
STUDY_TIPS: Tip 1 [SEP] Tip 2 [SEP] Tip 3
VISUAL_PROMPT: [Diagram description]`

// BuildPrompt renders the lesson generation prompt.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are a Senior K-12 Curriculum Specialist. Generate a 1500-word comprehensive review module.\n")
	fmt.Fprintf(&b, "SUBJECT: %s\n", in.Subject)
	fmt.Fprintf(&b, "MELC: \"%s\" (%s)\n", in.MELC, in.Code)
	fmt.Fprintf(&b, "LEVEL: %s\n", in.Level)
	fmt.Fprintf(&b, "QUARTER: %d, %s\n", in.Quarter, in.Week)

	if in.Focus != "" {
		fmt.Fprintf(&b, "\nEMPHASIZE THIS TOPIC: %s\n", in.Focus)
	}
	if curriculum.IsLanguageTrack(in.Track, in.Subject) {
		b.WriteString("\n" + languageRule + "\n")
	}

	b.WriteString("\n" + lessonGuidelines)
	return b.String()
}

const defineTemplate = `Provide a simple, clear, and direct definition for "%s" for a K-12 student. Avoid convoluted language. Context: "%s..."`

// maxDefineContext is the number of context characters sent with a lookup.
const maxDefineContext = 500

func buildDefinePrompt(term, context string) string {
	r := []rune(context)
	if len(r) > maxDefineContext {
		r = r[:maxDefineContext]
	}
	return fmt.Sprintf(defineTemplate, term, string(r))
}

const visualTemplate = `High-quality K-12 educational diagram: "%s". Technical, professional, no text labels, clean textbook style.`

func buildVisualPrompt(description string) string {
	return fmt.Sprintf(visualTemplate, description)
}

const recapSystemPrompt = `You are condensing a K-12 review module into a quick-review card. Keep the student's vocabulary level and stay faithful to the module.`

func buildRecapUserMessage(l *Lesson) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", l.Title)
	fmt.Fprintf(&b, "Overview: %s\n", l.Overview)
	for _, s := range l.Sections {
		fmt.Fprintf(&b, "\n## %s\n", s.Title)
		for _, p := range s.Paragraphs() {
			b.WriteString(p + "\n")
		}
	}
	if len(l.KeyTerms) > 0 {
		fmt.Fprintf(&b, "\nKey terms: %s\n", strings.Join(l.KeyTerms, ", "))
	}

	b.WriteString(`
Instructions:
1. Summarize the module in 2-3 sentences.
2. List 3-5 key points a student must remember, each one sentence.
Use plain text. No markdown.`)

	return b.String()
}
