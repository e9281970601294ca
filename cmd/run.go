package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/masterreview/internal/app"
	"github.com/abhisek/masterreview/internal/screens/nav"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(&nav.Deps{
		Catalog:    e.catalog,
		Library:    e.library,
		Lessons:    e.lessons,
		VisualsDir: e.cfg.Storage.VisualsDir,
		Timeout:    e.cfg.LLM.Timeout,
		Log:        e.log,
	})
}
