package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/store"
)

type testEnv struct {
	dir    string
	db     string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("MASTERREVIEW_DB", "")
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	return testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "test.db"),
		config: filepath.Join(dir, "config.yaml"),
	}
}

// run executes the root command. Persistent flags are always passed so
// values from an earlier run never leak into the next.
func (te testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", te.db, "--config", te.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (te testEnv) saveLesson(t *testing.T) curriculum.Unit {
	t.Helper()
	c := curriculum.Default()
	unit, err := c.Unit("jhs-7", "jhs7-mathematics", 1, "Week 1-2")
	require.NoError(t, err)

	st, err := store.Open(te.db)
	require.NoError(t, err)
	defer st.Close()

	lib := library.New(c, st.LessonRepo(), nil, zap.NewNop())
	_, err = lib.Save(context.Background(), unit, &lessons.Lesson{
		Title:    "Sets and Subsets",
		Overview: "Describing collections of objects.",
		Sections: []lessons.Section{{
			Title:  "Core Concepts",
			Blocks: []lessons.Block{{Kind: lessons.KindParagraph, Text: "A set is a well-defined collection."}},
		}},
	})
	require.NoError(t, err)
	return unit
}

func TestVersion(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "masterreview "+version+"\n", out)
}

func TestCatalogTracks(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "catalog", "tracks", "--level", "jhs")
	require.NoError(t, err)
	assert.Contains(t, out, "jhs-7")
	assert.Contains(t, out, "JHS Grade 10")
}

func TestCatalogWeeks(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "catalog", "weeks", "jhs-7", "jhs7-mathematics")
	require.NoError(t, err)
	assert.Contains(t, out, "Quarter 1")
	assert.Contains(t, out, "Quarter 4")
	assert.Contains(t, out, "Week 1-2")
}

func TestCatalogWeeks_UnknownSubject(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.run(t, "catalog", "weeks", "jhs-7", "no-such-subject")
	require.ErrorIs(t, err, curriculum.ErrNotFound)
}

func TestCatalogSearch(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "catalog", "search", "mathematics")
	require.NoError(t, err)
	assert.Contains(t, out, "jhs7-mathematics")
}

func TestSaved_Lifecycle(t *testing.T) {
	te := newTestEnv(t)

	out, err := te.run(t, "saved", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved lessons.")

	unit := te.saveLesson(t)

	out, err = te.run(t, "saved", "list")
	require.NoError(t, err)
	assert.Contains(t, out, unit.Key())

	out, err = te.run(t, "saved", "view", unit.Key(), "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Sets and Subsets")
	assert.Contains(t, out, "## Core Concepts")

	export := filepath.Join(te.dir, "export.md")
	_, err = te.run(t, "saved", "export", unit.Key(), "-o", export)
	require.NoError(t, err)
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), "A set is a well-defined collection.")

	out, err = te.run(t, "saved", "delete", unit.Key())
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+unit.Key())

	_, err = te.run(t, "saved", "view", unit.Key(), "--format", "markdown")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfig_PathAndInit(t *testing.T) {
	te := newTestEnv(t)

	out, err := te.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, te.config+"\n", out)

	_, err = te.run(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, te.config)

	_, err = te.run(t, "config", "init")
	require.Error(t, err)

	_, err = te.run(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfig_Show(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "llm:")
	assert.Contains(t, out, "storage:")
}

func TestLLMList_Empty(t *testing.T) {
	te := newTestEnv(t)
	out, err := te.run(t, "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}

func TestDefine_NoProvider(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.run(t, "define", "osmosis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no AI provider configured")
}
