package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var defineCmd = &cobra.Command{
	Use:   "define <term>",
	Short: "Define a key term the way the lesson glossary does",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lessonContext, _ := cmd.Flags().GetString("context")

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
		def, err := svc.DefineTerm(ctx, args[0], lessonContext)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], def)
		return nil
	},
}

func init() {
	defineCmd.Flags().String("context", "", "Surrounding lesson text to ground the definition")
}
