package lesson

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

const maxContentWidth = 100

func (s *LessonScreen) View(width, height int) string {
	if s.loading {
		return s.renderLoading(width, height)
	}
	if s.lesson == nil {
		return s.renderError(width, height)
	}

	contentWidth := min(width-4, maxContentWidth)
	header := s.renderHeader(contentWidth)
	bottom := s.renderBottom(contentWidth)

	bodyHeight := height - lipgloss.Height(header) - 1
	if bottom != "" {
		bodyHeight -= lipgloss.Height(bottom)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if s.glossary {
		body = s.renderGlossary(contentWidth)
	} else {
		body = s.renderSection(contentWidth)
	}
	s.vp.SetWidth(contentWidth)
	s.vp.SetHeight(bodyHeight)
	s.vp.SetContent(body)

	parts := []string{header, s.vp.View()}
	if bottom != "" {
		parts = append(parts, bottom)
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (s *LessonScreen) renderLoading(width, height int) string {
	what := "Generating lesson"
	if s.focus != "" {
		what = "Regenerating lesson with focus on " + s.focus
	}
	msg := s.spinner.View() + " " + what + "...\n\n" +
		theme.Subtitle.Render(fmt.Sprintf("%s · Quarter %d · %s", s.unit.Subject.Name, s.unit.Quarter, s.unit.Week.Name))
	if s.unit.Week.MELC != "" {
		msg += "\n" + theme.Hint.Width(min(width-8, 72)).Render(s.unit.Week.MELC)
	}
	return lipgloss.NewStyle().
		Width(width).Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

func (s *LessonScreen) renderError(width, height int) string {
	msg := theme.Failure.Render(s.errText) + "\n\n" +
		theme.Hint.Render("Press r to try again or Esc to go back.")
	return lipgloss.NewStyle().
		Width(width).Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}

func (s *LessonScreen) renderHeader(width int) string {
	var b strings.Builder
	title := theme.Title.Render(lessons.Clean(s.lesson.Title))
	if s.saved {
		title += "  " + theme.Saved.Render(statusSaved)
	}
	b.WriteString(title + "\n")
	if s.lesson.Overview != "" {
		b.WriteString(theme.Subtitle.Width(width).MaxHeight(3).Render(lessons.Clean(s.lesson.Overview)) + "\n")
	}

	n := len(s.lesson.Sections)
	if s.glossary {
		b.WriteString("\n" + theme.SectionHeading.Render("Glossary and study tips"))
		return b.String()
	}
	if n == 0 {
		b.WriteString("\n" + theme.Hint.Render("This lesson has no sections."))
		return b.String()
	}
	b.WriteString("\n" + theme.Subtitle.Render(fmt.Sprintf("Section %d/%d", s.section+1, n)) +
		"  " + components.ProgressDots(s.section, n))
	return b.String()
}

func (s *LessonScreen) renderBottom(width int) string {
	var parts []string
	if s.popup != nil {
		text := s.popup.text
		if s.popup.loading {
			text = "Looking up..."
		}
		parts = append(parts, theme.Popup.Width(min(width, 72)).Render(
			theme.Term.Render(s.popup.term)+"\n"+theme.Body.Render(text),
		))
	}
	if s.focusing {
		parts = append(parts, theme.Card.Width(min(width, 72)).Render(
			theme.SectionHeading.Render("Regenerate with focus")+"\n"+s.input.View(),
		))
	}
	if s.status != "" {
		style := theme.Hint
		if s.status == statusSaved {
			style = theme.Saved
		}
		parts = append(parts, style.Render(s.status))
	}
	return strings.Join(parts, "\n")
}

func (s *LessonScreen) renderSection(width int) string {
	sec, ok := s.currentSection()
	if !ok {
		return ""
	}
	selected := ""
	if s.term >= 0 && s.term < len(s.terms) {
		selected = s.terms[s.term]
	}
	s.highlighter.Reset()
	text := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(lessons.Clean(sec.Title)) + "\n\n")

	if desc := strings.TrimSpace(sec.VisualAidDescription); desc != "" {
		aid := "Visual aid: " + desc
		if path, ok := s.visuals[s.section]; ok {
			aid += "\n" + theme.Saved.Render("Saved: "+path)
		}
		b.WriteString(theme.Card.Width(width).Render(theme.Hint.Render(aid)) + "\n\n")
	}

	level := s.unit.Track.Level
	questions := 0
	for _, blk := range sec.Blocks {
		switch blk.Kind {
		case lessons.KindParagraph:
			b.WriteString(text.Render(s.highlight(blk.Text, selected)) + "\n\n")
		case lessons.KindExample:
			if blk.Example != nil {
				b.WriteString(s.renderExample(blk.Example, lessons.ExampleLabel(level), width, selected) + "\n\n")
			}
		case lessons.KindQuestion:
			if blk.Question != nil {
				questions++
				label := fmt.Sprintf("%s %d", lessons.QuestionLabel(level), questions)
				b.WriteString(s.renderQuestion(blk.Question, label, width, selected) + "\n\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// highlight renders text with the first occurrence of each key term
// marked. The selected term is drawn inverted.
func (s *LessonScreen) highlight(text, selected string) string {
	var b strings.Builder
	for _, seg := range s.highlighter.Segments(text) {
		switch {
		case seg.Highlight && seg.Term == selected:
			b.WriteString(theme.TermSelected.Render(seg.Text))
		case seg.Highlight:
			b.WriteString(theme.Term.Render(seg.Text))
		default:
			b.WriteString(theme.Body.Render(seg.Text))
		}
	}
	return b.String()
}

func (s *LessonScreen) renderExample(ex *lessons.Example, label string, width int, selected string) string {
	inner := width - 4
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(label) + "  " + difficultyBadge(ex.Difficulty) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(s.highlight(ex.Problem, selected)))
	if s.showSolutions {
		if sol := s.highlight(ex.Solution, selected); sol != "" {
			b.WriteString("\n\n" + lipgloss.NewStyle().Width(inner).Render(theme.Saved.Render("Solution: ")+sol))
		}
		if r := s.highlight(ex.Reasoning, selected); r != "" {
			b.WriteString("\n" + lipgloss.NewStyle().Width(inner).Render(theme.Subtitle.Render("Reasoning: ")+r))
		}
	} else if ex.Solution != "" || ex.Reasoning != "" {
		b.WriteString("\n\n" + theme.Hint.Render("enter: show solution"))
	}
	return theme.Card.Width(width).Render(b.String())
}

func (s *LessonScreen) renderQuestion(q *lessons.Question, label string, width int, selected string) string {
	inner := width - 4
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(label) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(s.highlight(q.Question, selected)))

	if lessons.Clean(q.Hint) != "" {
		if s.showHints {
			b.WriteString("\n\n" + lipgloss.NewStyle().Width(inner).Render(theme.Hint.Render("Hint: ")+s.highlight(q.Hint, selected)))
		} else {
			b.WriteString("\n\n" + theme.Hint.Render("h: hint"))
		}
	}
	if q.Answer != "" {
		if s.showAnswers {
			answer, rationale := lessons.SplitRationale(q.Answer)
			b.WriteString("\n" + lipgloss.NewStyle().Width(inner).Render(theme.Saved.Render("Answer: ")+s.highlight(answer, selected)))
			if r := s.highlight(rationale, selected); r != "" {
				b.WriteString("\n" + lipgloss.NewStyle().Width(inner).Render(theme.Subtitle.Render("Rationale: ")+r))
			}
		} else {
			b.WriteString("\n" + theme.Hint.Render("a: answer"))
		}
	}
	return theme.Card.Width(width).Render(b.String())
}

func (s *LessonScreen) renderGlossary(width int) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render("Dictionary") + "\n\n")
	if len(s.lesson.Dictionary) == 0 {
		b.WriteString(theme.Hint.Render("No dictionary entries.") + "\n")
	}
	for _, item := range s.lesson.Dictionary {
		line := theme.Term.Render(item.Term)
		if item.Pronunciation != "" {
			line += " " + theme.Subtitle.Render(item.Pronunciation)
		}
		b.WriteString(line + "\n")
		b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(item.Definition) + "\n\n")
	}

	if len(s.lesson.StudyTips) > 0 {
		b.WriteString(theme.SectionHeading.Render("Study Tips") + "\n\n")
		for i, tip := range s.lesson.StudyTips {
			b.WriteString(lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%d. %s", i+1, lessons.Clean(tip))) + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.lesson.References) > 0 {
		b.WriteString(theme.SectionHeading.Render("References") + "\n\n")
		for _, r := range s.lesson.References {
			b.WriteString("• " + r.Title + "  " + theme.Subtitle.Render(r.URI) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// difficultyBadge renders the difficulty label. Labels outside the known
// four use the Moderate colour.
func difficultyBadge(d lessons.Difficulty) string {
	label := string(d)
	if label == "" {
		label = string(lessons.Moderate)
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BgDark).
		Background(difficultyColor(d)).
		Padding(0, 1).
		Render(strings.ToUpper(label))
}

func difficultyColor(d lessons.Difficulty) color.Color {
	switch d {
	case lessons.Easy:
		return theme.Easy
	case lessons.Hard:
		return theme.Hard
	case lessons.Tricky:
		return theme.Tricky
	default:
		return theme.Moderate
	}
}
