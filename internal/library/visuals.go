package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/abhisek/masterreview/internal/lessons"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// VisualPath returns where the visual for a lesson section is written.
func VisualPath(dir, key string, section int, ext string) string {
	name := fmt.Sprintf("%s-s%d%s", unsafeName.ReplaceAllString(key, "_"), section+1, ext)
	return filepath.Join(dir, name)
}

// WriteVisual saves a generated visual under dir and returns its path.
func WriteVisual(dir, key string, section int, v *lessons.Visual) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create visuals directory: %w", err)
	}
	path := VisualPath(dir, key, section, v.Ext())
	if err := os.WriteFile(path, v.Data, 0o644); err != nil {
		return "", fmt.Errorf("write visual: %w", err)
	}
	return path, nil
}
