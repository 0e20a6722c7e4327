package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"zonewarden.io/internal/models"
	"zonewarden.io/internal/validator"
)

func newRecordCmd() *cobra.Command {
	var (
		origin   string
		zoneFile string
		form     models.Record
		recordID string
		rtype    string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Validate one record against a zone",
		Long: `Validate a single record. With --zonefile the record is checked against the
zone's existing records (CNAME exclusivity, duplicates, TTL uniformity, glue);
--id names the existing record being replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var snapshot []models.Record
			if zoneFile != "" {
				parsed, err := parseZoneFile(zoneFile, origin)
				if err != nil {
					return err
				}
				snapshot = parsed.Records
				for i := range snapshot {
					snapshot[i].ID = fmt.Sprintf("entry-%d", i+1)
				}
			}

			form.Type = models.RecordType(rtype)
			result := validator.ValidateDNSRecord(form, snapshot, recordID, origin)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if !result.Valid {
				return fmt.Errorf("record rejected")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&origin, "origin", "o", "", "Zone name")
	cmd.Flags().StringVarP(&zoneFile, "zonefile", "f", "", "Master file holding the zone's current records")
	cmd.Flags().StringVar(&form.Name, "name", "@", "Record name, relative to the zone")
	cmd.Flags().StringVarP(&rtype, "type", "t", "", "Record type")
	cmd.Flags().StringVar(&form.Value, "value", "", "Record value")
	cmd.Flags().IntVar(&form.TTL, "ttl", 3600, "TTL in seconds")
	cmd.Flags().StringVar(&recordID, "id", "", "Id of the record being updated (entry-<n> for zone-file records)")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
