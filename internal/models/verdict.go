package models

import (
	"sort"
	"time"
)

// Field keys used in ValidationResult.Errors
const (
	FieldName  = "name"
	FieldType  = "type"
	FieldValue = "value"
	FieldTTL   = "ttl"
)

// ValidationResult is the verdict for one candidate record. It is built fresh by
// every validation call and is not modified afterwards.
type ValidationResult struct {
	Valid           bool              `json:"valid"`
	Errors          map[string]string `json:"errors"`
	Warnings        []string          `json:"warnings"`
	NormalizedName  string            `json:"normalizedName"`
	NormalizedValue string            `json:"normalizedValue"`
}

// ErrorFields returns the fields that carry an error, sorted
func (r ValidationResult) ErrorFields() []string {
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ZoneKind classifies a zone by its name suffix
type ZoneKind string

const (
	ZoneForward     ZoneKind = "forward"
	ZoneReverseIPv4 ZoneKind = "reverse-ipv4"
	ZoneReverseIPv6 ZoneKind = "reverse-ipv6"
)

// Zone is a tenant's DNS zone
type Zone struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// OverlapResult reports a parent/child conflict between zone names
type OverlapResult struct {
	HasOverlap      bool   `json:"hasOverlap"`
	ConflictingZone string `json:"conflictingZone,omitempty"`
}

// DeleteCheck is the advisory verdict for deleting a record
type DeleteCheck struct {
	CanDelete bool   `json:"canDelete"`
	Reason    string `json:"reason,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
