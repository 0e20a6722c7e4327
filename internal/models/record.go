// internal/models/record.go
package models

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// RecordType represents supported DNS record types
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeNS    RecordType = "NS"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeSOA   RecordType = "SOA"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
	RecordTypePTR   RecordType = "PTR"
)

var allRecordTypes = []RecordType{
	RecordTypeA,
	RecordTypeAAAA,
	RecordTypeCNAME,
	RecordTypeMX,
	RecordTypeNS,
	RecordTypeTXT,
	RecordTypeSOA,
	RecordTypeSRV,
	RecordTypeCAA,
	RecordTypePTR,
}

// AllRecordTypes returns every supported record type in display order
func AllRecordTypes() []RecordType {
	return slices.Clone(allRecordTypes)
}

// IsValid returns true if the record type is supported
func (rt RecordType) IsValid() bool {
	return slices.Contains(allRecordTypes, rt)
}

// String returns the string representation of the record type
func (rt RecordType) String() string {
	return string(rt)
}

// ParseRecordType converts user input such as "cname" into a RecordType
func ParseRecordType(s string) (RecordType, error) {
	rt := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", fmt.Errorf("unsupported record type: %q", s)
	}
	return rt, nil
}

// Record is a resource record as submitted for validation or held in a zone snapshot.
// Name is relative to the zone: "@" or "" is the apex.
type Record struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	Type  RecordType `json:"type"`
	Value string     `json:"value"`
	TTL   int        `json:"ttl"`
}

// NormalizeDomainName normalizes a domain name for consistent storage/lookup
func NormalizeDomainName(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}

// RecordSet represents a collection of DNS records for the same name/type
type RecordSet struct {
	Name    string
	Type    RecordType
	Records []Record
}

// NewRecordSet creates a new record set
func NewRecordSet(name string, recordType RecordType) *RecordSet {
	return &RecordSet{
		Name:    name,
		Type:    recordType,
		Records: make([]Record, 0),
	}
}

// Add adds a record to the set. Owner-name equivalence depends on the zone and is
// decided by the caller; only the type is checked here.
func (rs *RecordSet) Add(record Record) error {
	if record.Type != rs.Type {
		return fmt.Errorf("record type mismatch: expected %s, got %s", rs.Type, record.Type)
	}

	rs.Records = append(rs.Records, record)
	return nil
}

// IsEmpty returns true if the record set has no records
func (rs *RecordSet) IsEmpty() bool {
	return len(rs.Records) == 0
}

// TTLs returns the distinct TTLs in the set, ascending
func (rs *RecordSet) TTLs() []int {
	seen := make(map[int]struct{}, len(rs.Records))
	ttls := make([]int, 0, len(rs.Records))
	for _, r := range rs.Records {
		if _, ok := seen[r.TTL]; ok {
			continue
		}
		seen[r.TTL] = struct{}{}
		ttls = append(ttls, r.TTL)
	}
	sort.Ints(ttls)
	return ttls
}
