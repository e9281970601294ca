package lessons

import (
	"fmt"
	"strings"
)

// Markdown renders a lesson as CommonMark.
func Markdown(l *Lesson) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", l.Title)
	if l.Overview != "" {
		fmt.Fprintf(&b, "_%s_\n\n", l.Overview)
	}

	for _, s := range l.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if s.VisualAidDescription != "" {
			fmt.Fprintf(&b, "> **Visual aid:** %s\n\n", s.VisualAidDescription)
		}
		for _, blk := range s.Blocks {
			writeBlock(&b, blk)
		}
	}

	if len(l.Dictionary) > 0 {
		b.WriteString("## Dictionary\n\n")
		b.WriteString("| Term | Pronunciation | Definition |\n")
		b.WriteString("|---|---|---|\n")
		for _, v := range l.Dictionary {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(v.Term), cell(v.Pronunciation), cell(v.Definition))
		}
		b.WriteString("\n")
	}

	if len(l.KeyTerms) > 0 {
		fmt.Fprintf(&b, "**Key terms:** %s\n\n", strings.Join(l.KeyTerms, ", "))
	}

	if len(l.StudyTips) > 0 {
		b.WriteString("## Study Tips\n\n")
		for i, tip := range l.StudyTips {
			fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
		}
		b.WriteString("\n")
	}

	if len(l.References) > 0 {
		b.WriteString("## References\n\n")
		for _, r := range l.References {
			fmt.Fprintf(&b, "- [%s](%s)\n", r.Title, r.URI)
		}
	}

	return b.String()
}

func writeBlock(b *strings.Builder, blk Block) {
	switch blk.Kind {
	case KindParagraph:
		fmt.Fprintf(b, "%s\n\n", Clean(blk.Text))
	case KindExample:
		ex := blk.Example
		if ex == nil {
			return
		}
		fmt.Fprintf(b, "> **Scenario (%s)**\n>\n", ex.Difficulty)
		fmt.Fprintf(b, "> %s\n>\n", Clean(ex.Problem))
		fmt.Fprintf(b, "> **Solution:** %s\n>\n", Clean(ex.Solution))
		fmt.Fprintf(b, "> **Reasoning:** %s\n\n", Clean(ex.Reasoning))
	case KindQuestion:
		q := blk.Question
		if q == nil {
			return
		}
		answer, rationale := SplitRationale(q.Answer)
		fmt.Fprintf(b, "**Q.** %s\n\n", Clean(q.Question))
		fmt.Fprintf(b, "- _Hint:_ %s\n", Clean(q.Hint))
		fmt.Fprintf(b, "- _Answer:_ %s\n", Clean(answer))
		if rationale != "" {
			fmt.Fprintf(b, "- _Rationale:_ %s\n", Clean(rationale))
		}
		b.WriteString("\n")
	}
}

// cell escapes pipes so a value stays inside one table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
