package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zonewarden.io/internal/models"
	"zonewarden.io/internal/zonefile"
)

func newCheckCmd() *cobra.Command {
	var (
		origin  string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "check <zonefile>",
		Short: "Lint a zone file offline",
		Long: `Parse an RFC 1035 master file and validate every record in file order against
the records before it. Exits non-zero when any record is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseZoneFile(args[0], origin)
			if err != nil {
				return err
			}

			report := zonefile.Check(parsed.Records, parsed.Origin)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(struct {
					Skipped []zonefile.SkippedRecord `json:"skipped"`
					*zonefile.Report
				}{parsed.Skipped, report}); err != nil {
					return err
				}
			} else {
				printReport(out, parsed, report, verbose)
			}

			if !report.OK() {
				return fmt.Errorf("%d record(s) rejected", report.Rejected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&origin, "origin", "o", "", "Zone origin (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List accepted records too")
	_ = cmd.MarkFlagRequired("origin")

	return cmd
}

func parseZoneFile(path, origin string) (*zonefile.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zone file: %w", err)
	}
	defer f.Close()

	return zonefile.Parse(f, origin)
}

func printReport(out io.Writer, parsed *zonefile.ParseResult, report *zonefile.Report, verbose bool) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, rr := range report.Results {
		switch {
		case !rr.Result.Valid:
			fmt.Fprintf(tw, "REJECT\t%s\t%s\t%s\t%s\n", rr.Record.ID, rr.Record.Name, rr.Record.Type, errorSummary(rr.Result))
		case len(rr.Result.Warnings) > 0:
			fmt.Fprintf(tw, "WARN\t%s\t%s\t%s\t%s\n", rr.Record.ID, rr.Record.Name, rr.Record.Type, strings.Join(rr.Result.Warnings, "; "))
		case verbose:
			fmt.Fprintf(tw, "OK\t%s\t%s\t%s\t%s\n", rr.Record.ID, rr.Record.Name, rr.Record.Type, rr.Result.NormalizedValue)
		}
	}
	for _, s := range parsed.Skipped {
		fmt.Fprintf(tw, "SKIP\t-\t%s\t%s\t%s\n", s.Name, s.Type, s.Reason)
	}
	tw.Flush()

	fmt.Fprintf(out, "%s: %d accepted, %d rejected, %d warnings, %d managed, %d skipped\n",
		report.Zone, report.Accepted, report.Rejected, report.Warnings, len(report.Managed), len(parsed.Skipped))
}

func errorSummary(result models.ValidationResult) string {
	parts := make([]string, 0, len(result.Errors))
	for _, field := range result.ErrorFields() {
		parts = append(parts, field+": "+result.Errors[field])
	}
	return strings.Join(parts, "; ")
}
