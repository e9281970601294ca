package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterreview/internal/curriculum"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the curriculum catalog",
}

var catalogTracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks, optionally for one level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := curriculum.Default()
		levelFlag, _ := cmd.Flags().GetString("level")

		tracks := c.Tracks()
		if levelFlag != "" {
			level, err := curriculum.ParseLevel(levelFlag)
			if err != nil {
				return err
			}
			tracks = c.TracksByLevel(level)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s  %-36s  %-32s  %s\n", "ID", "Name", "Level", "Subjects")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, t := range tracks {
			fmt.Fprintf(out, "%-14s  %-36s  %-32s  %d\n", t.ID, truncate(t.Name, 36), t.Level, len(t.Subjects))
		}
		return nil
	},
}

var catalogSubjectsCmd = &cobra.Command{
	Use:   "subjects <track>",
	Short: "List the subjects of a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := curriculum.Default().Track(args[0])
		if !ok {
			return fmt.Errorf("track %q: %w", args[0], curriculum.ErrNotFound)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", t.Name, t.Level)
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, s := range t.Subjects {
			category := ""
			if s.Category != curriculum.CategoryNone {
				category = "[" + string(s.Category) + "] "
			}
			fmt.Fprintf(out, "%s %-32s  %s%s\n", s.Icon, s.ID, category, s.Name)
			if s.Description != "" {
				fmt.Fprintf(out, "   %s\n", s.Description)
			}
		}
		return nil
	},
}

var catalogWeeksCmd = &cobra.Command{
	Use:   "weeks <track> <subject>",
	Short: "List the quarters and weeks of a subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, s, err := curriculum.Default().Subject(args[0], args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s · %s\n", s.Icon, s.Name, t.Name)
		for _, q := range s.Quarters {
			fmt.Fprintf(out, "\nQuarter %d\n", q.Number)
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, w := range q.Weeks {
				fmt.Fprintf(out, "  %-10s  %-16s  %s\n", w.Name, w.Code, w.MELC)
			}
		}
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search subjects across every track",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		results := curriculum.Default().Search(strings.Join(args, " "), limit)

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No matching subjects.")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "%-14s  %-32s  %s\n", r.Track.ID, r.Subject.ID, r.Label)
		}
		return nil
	},
}

func init() {
	catalogTracksCmd.Flags().StringP("level", "l", "", "Filter by level (jhs, specialized, shs)")
	catalogSearchCmd.Flags().IntP("limit", "n", 10, "Maximum number of results")

	catalogCmd.AddCommand(catalogTracksCmd)
	catalogCmd.AddCommand(catalogSubjectsCmd)
	catalogCmd.AddCommand(catalogWeeksCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
}
