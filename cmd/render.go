package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/abhisek/masterreview/internal/lessons"
)

const wrapWidth = 100

// Output formats accepted by --format.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// renderMarkdown styles md for the terminal. Output that is not a
// terminal gets the plain notty style.
func renderMarkdown(md string) (string, error) {
	style := "notty"
	if isTerminal(os.Stdout) {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render(md)
}

func writeLesson(w io.Writer, l *lessons.Lesson, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case formatMarkdown:
		_, err := io.WriteString(w, lessons.Markdown(l))
		return err
	case formatText, "":
		out, err := renderMarkdown(lessons.Markdown(l))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, markdown or json)", format)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
