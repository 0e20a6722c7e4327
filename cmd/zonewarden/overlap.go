package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zonewarden.io/internal/validator"
)

func newOverlapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overlap <zone> [existing-zone...]",
		Short: "Check a zone name against existing zones for parent/child overlap",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := validator.DetectZoneOverlap(args[0], args[1:])
			if result.HasOverlap {
				fmt.Fprintf(cmd.OutOrStdout(), "%s overlaps %s\n", args[0], result.ConflictingZone)
				return fmt.Errorf("zone overlap")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no overlap\n", args[0])
			return nil
		},
	}
}
