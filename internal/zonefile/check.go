package zonefile

import (
	"fmt"

	"zonewarden.io/internal/models"
	"zonewarden.io/internal/validator"
)

// RecordReport is the verdict for one record of a bulk import
type RecordReport struct {
	Record models.Record           `json:"record"`
	Result models.ValidationResult `json:"result"`
}

// Report summarizes a bulk check. Managed records (SOA and apex NS) travel with the
// zone itself and are listed without being validated.
type Report struct {
	Zone     string          `json:"zone"`
	Results  []RecordReport  `json:"results"`
	Managed  []models.Record `json:"managed"`
	Accepted int             `json:"accepted"`
	Rejected int             `json:"rejected"`
	Warnings int             `json:"warnings"`
}

// OK reports whether every checked record was accepted
func (r *Report) OK() bool {
	return r.Rejected == 0
}

// AcceptedRecords returns the records that passed, in file order
func (r *Report) AcceptedRecords() []models.Record {
	out := make([]models.Record, 0, r.Accepted)
	for _, rr := range r.Results {
		if rr.Result.Valid {
			out = append(out, rr.Record)
		}
	}
	return out
}

// Check validates records in order, each against the records accepted before it, so
// conflicts inside the file are reported on the later record. Records without an id
// are numbered entry-1, entry-2, ... in file order.
func Check(records []models.Record, zoneName string) *Report {
	return CheckAgainst(records, nil, zoneName)
}

// CheckAgainst is Check with a starting snapshot, used when importing into a zone that
// already has records
func CheckAgainst(records, existing []models.Record, zoneName string) *Report {
	report := &Report{
		Zone:    models.NormalizeDomainName(zoneName),
		Results: make([]RecordReport, 0, len(records)),
		Managed: make([]models.Record, 0),
	}

	snapshot := make([]models.Record, 0, len(existing)+len(records))
	snapshot = append(snapshot, existing...)

	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("entry-%d", i+1)
		}

		if isManaged(rec, zoneName) {
			report.Managed = append(report.Managed, rec)
			continue
		}

		result := validator.ValidateDNSRecord(rec, snapshot, "", zoneName)
		report.Results = append(report.Results, RecordReport{Record: rec, Result: result})
		report.Warnings += len(result.Warnings)

		if !result.Valid {
			report.Rejected++
			continue
		}

		report.Accepted++
		rec.Name = result.NormalizedName
		rec.Value = result.NormalizedValue
		snapshot = append(snapshot, rec)
	}

	return report
}

func isManaged(rec models.Record, zoneName string) bool {
	rt, err := models.ParseRecordType(string(rec.Type))
	if err != nil {
		return false
	}
	if rt == models.RecordTypeSOA {
		return true
	}
	return rt == models.RecordTypeNS && validator.NormalizeRecordName(validator.GetFQDN(rec.Name, zoneName)) == validator.NormalizeRecordName(zoneName)
}
