package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/store"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Generate lessons and visual aids",
}

// unitFromFlags resolves <track> <subject> plus --quarter and --week.
func unitFromFlags(cmd *cobra.Command, args []string) (curriculum.Unit, error) {
	quarter, _ := cmd.Flags().GetInt("quarter")
	week, _ := cmd.Flags().GetString("week")
	return curriculum.Default().Unit(args[0], args[1], quarter, week)
}

var lessonGenerateCmd = &cobra.Command{
	Use:   "generate <track> <subject>",
	Short: "Generate the lesson for one week",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := unitFromFlags(cmd, args)
		if err != nil {
			return err
		}
		focus, _ := cmd.Flags().GetString("focus")
		save, _ := cmd.Flags().GetBool("save")
		format, _ := cmd.Flags().GetString("format")

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		svc, err := e.requireLessons()
		if err != nil {
			return err
		}

		ctx, cancel := e.requestContext(cmd.Context())
		defer cancel()
		l, err := svc.Generate(ctx, lessons.GenerateRequest{Unit: unit, Focus: focus})
		if err != nil {
			return err
		}

		if save {
			stored, err := e.library.Save(cmd.Context(), unit, l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", stored.Key)
		}
		return writeLesson(cmd.OutOrStdout(), l, format)
	},
}

var lessonPrefetchCmd = &cobra.Command{
	Use:   "prefetch <track> <subject>",
	Short: "Generate and save every week of a subject for offline use",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if _, err := e.requireLessons(); err != nil {
			return err
		}

		concurrency := e.cfg.Storage.PrefetchConcurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency, _ = cmd.Flags().GetInt("concurrency")
		}

		out := cmd.OutOrStdout()
		report, err := e.library.Prefetch(cmd.Context(), args[0], args[1], library.PrefetchOptions{
			Concurrency: concurrency,
			Force:       force,
			Timeout:     e.cfg.LLM.Timeout,
			Progress: func(ev library.PrefetchEvent) {
				status := "✓"
				switch {
				case ev.Err != nil:
					status = "✗ " + ev.Err.Error()
				case ev.Skipped:
					status = "already saved"
				}
				fmt.Fprintf(out, "[%2d/%d] %s  %s\n", ev.Done, ev.Total, ev.Key, status)
			},
		})

		fmt.Fprintf(out, "\nGenerated %d, skipped %d, failed %d\n",
			len(report.Generated), len(report.Skipped), len(report.Failed))
		if err != nil {
			return err
		}
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d weeks failed", len(report.Failed))
		}
		return nil
	},
}

var lessonVisualCmd = &cobra.Command{
	Use:   "visual <track> <subject>",
	Short: "Generate visual aids for a saved lesson",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := unitFromFlags(cmd, args)
		if err != nil {
			return err
		}
		section, _ := cmd.Flags().GetInt("section")

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		svc, err := e.requireLessons()
		if err != nil {
			return err
		}
		if !svc.HasVisuals() {
			return lessons.ErrVisualsUnavailable
		}

		stored, err := e.library.Get(cmd.Context(), unit.Key())
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("lesson %s is not saved; run `masterreview lesson generate --save` first", unit.Key())
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		made := 0
		for i, sec := range stored.Lesson.Sections {
			if section > 0 && i != section-1 {
				continue
			}
			desc := strings.TrimSpace(sec.VisualAidDescription)
			if desc == "" {
				continue
			}
			ctx, cancel := e.requestContext(cmd.Context())
			v, err := svc.GenerateVisual(ctx, desc)
			cancel()
			if err != nil {
				return fmt.Errorf("section %d: %w", i+1, err)
			}
			path, err := library.WriteVisual(e.cfg.Storage.VisualsDir, unit.Key(), i, v)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Section %d (%s): %s\n", i+1, sec.Title, path)
			made++
		}
		if made == 0 {
			fmt.Fprintln(out, "No visual aid descriptions in this lesson.")
		}
		return nil
	},
}

func addUnitFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("quarter", "q", 1, "Quarter number (1-4)")
	cmd.Flags().StringP("week", "w", "Week 1-2", `Week name, e.g. "Week 3-4"`)
}

func init() {
	addUnitFlags(lessonGenerateCmd)
	lessonGenerateCmd.Flags().String("focus", "", "Topic to emphasize")
	lessonGenerateCmd.Flags().Bool("save", false, "Save the lesson for offline use")
	lessonGenerateCmd.Flags().StringP("format", "f", formatText, "Output format: text, markdown or json")

	lessonPrefetchCmd.Flags().IntP("concurrency", "c", 3, "Parallel generations")
	lessonPrefetchCmd.Flags().Bool("force", false, "Regenerate weeks that are already saved")

	addUnitFlags(lessonVisualCmd)
	lessonVisualCmd.Flags().IntP("section", "s", 0, "Only this section (1-based); 0 means all")

	lessonCmd.AddCommand(lessonGenerateCmd)
	lessonCmd.AddCommand(lessonPrefetchCmd)
	lessonCmd.AddCommand(lessonVisualCmd)
}
