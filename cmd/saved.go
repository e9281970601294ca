package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterreview/internal/lessons"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage lessons saved for offline review",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.library.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No saved lessons.")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-28s  %-20s  %-12s  %s\n", "Saved", "Subject", "Track", "Week", "Key")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, l := range list {
			fmt.Fprintf(out, "%-16s  %-28s  %-20s  Q%d %-9s  %s\n",
				l.SavedAt.Local().Format("2006-01-02 15:04"),
				truncate(l.SubjectIcon+" "+l.SubjectName, 28),
				truncate(l.TrackName, 20),
				l.Quarter, l.Week,
				l.Key,
			)
		}
		return nil
	},
}

var savedViewCmd = &cobra.Command{
	Use:   "view <key>",
	Short: "Print a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stored, err := e.library.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeLesson(cmd.OutOrStdout(), stored.Lesson, format)
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.library.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var savedExportCmd = &cobra.Command{
	Use:   "export <key>",
	Short: "Export a saved lesson as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stored, err := e.library.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		md := lessons.Markdown(stored.Lesson)
		if output == "" || output == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
		return nil
	},
}

var savedRecapCmd = &cobra.Command{
	Use:   "recap <key>",
	Short: "Condense a saved lesson into a quick-review card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		svc, err := e.requireLessons()
		if err != nil {
			return err
		}

		stored, err := e.library.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		ctx, cancel := e.requestContext(cmd.Context())
		defer cancel()
		recap, err := svc.Recap(ctx, stored.Lesson)
		if err != nil {
			return err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", stored.Lesson.Title, recap.Summary)
		for _, p := range recap.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		rendered, err := renderMarkdown(b.String())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	savedViewCmd.Flags().StringP("format", "f", formatText, "Output format: text, markdown or json")
	savedExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedViewCmd)
	savedCmd.AddCommand(savedDeleteCmd)
	savedCmd.AddCommand(savedExportCmd)
	savedCmd.AddCommand(savedRecapCmd)
}
