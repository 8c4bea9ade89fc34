package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rostercheck/internal/division"
)

func newDivisionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "division <stage.json>",
		Short: "Convert a tournament stage document into a clan/division/group table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, cleanup, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := division.ConvertFile(args[0], logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stage %q (division %s): %d groups, %d teams\n",
				summary.Stage, summary.Division, summary.Groups, summary.Teams)
			fmt.Fprintf(out, "Wrote %s\n", summary.OutputPath)
			return nil
		},
	}
}
