package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "zonewarden",
		Short: "DNS record validation and zone consistency service",
		Long: `zonewarden validates DNS records against the zone they are written to:
per-type value grammar, CNAME exclusivity, duplicates, TTL uniformity,
glue and reverse-zone placement, and zone hierarchy overlap.`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default $ZONEWARDEN_CONFIG)")

	root.AddCommand(
		newServeCmd(&configPath),
		newCheckCmd(),
		newRecordCmd(),
		newOverlapCmd(),
		newVersionCmd(),
	)

	return root
}
