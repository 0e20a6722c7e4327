// Package validator decides whether a candidate DNS record may join a zone.
//
// Everything here is pure: callers pass the zone's current records as an explicit
// snapshot and receive a fresh models.ValidationResult. Nothing is cached, logged
// or shared between calls, so the functions are safe for concurrent use.
// Keeping the snapshot consistent with what is eventually written is the caller's
// job (see internal/storage).
package validator

import (
	"fmt"
	"strings"

	"zonewarden.io/internal/models"
)

const (
	MinTTL = 10
	MaxTTL = 604800
)

var (
	msgInvalidName = "Invalid record name format"
	msgInvalidTTL  = fmt.Sprintf("TTL must be between %d and %d seconds", MinTTL, MaxTTL)
)

// recordCheck accumulates the verdict for one candidate while the checks run
type recordCheck struct {
	record   models.Record
	zoneName string
	existing []models.Record
	errors   map[string]string
	warnings []string
}

// fail records msg for field unless an earlier check already failed that field
func (c *recordCheck) fail(field, msg string) {
	if _, ok := c.errors[field]; ok {
		return
	}
	c.errors[field] = msg
}

func (c *recordCheck) warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

func (c *recordCheck) failed(field string) bool {
	_, ok := c.errors[field]
	return ok
}

func (c *recordCheck) isApex() bool {
	return isApexName(c.record.Name, c.zoneName)
}

// sameOwner reports whether r is owned by the candidate's name
func (c *recordCheck) sameOwner(r models.Record) bool {
	return ownerKey(r.Name, c.zoneName) == ownerKey(c.record.Name, c.zoneName)
}

type typeValidator func(c *recordCheck)

// typeValidators holds the value grammar and placement rules of each record type
var typeValidators = map[models.RecordType]typeValidator{
	models.RecordTypeA:     (*recordCheck).validateARecord,
	models.RecordTypeAAAA:  (*recordCheck).validateAAAARecord,
	models.RecordTypeCNAME: (*recordCheck).validateCNAMERecord,
	models.RecordTypeMX:    (*recordCheck).validateMXRecord,
	models.RecordTypeNS:    (*recordCheck).validateNSRecord,
	models.RecordTypeTXT:   (*recordCheck).validateTXTRecord,
	models.RecordTypeSOA:   (*recordCheck).validateSOARecord,
	models.RecordTypeSRV:   (*recordCheck).validateSRVRecord,
	models.RecordTypeCAA:   (*recordCheck).validateCAARecord,
	models.RecordTypePTR:   (*recordCheck).validatePTRRecord,
}

// IsValidTTL reports whether ttl is inside the accepted range
func IsValidTTL(ttl int) bool {
	return ttl >= MinTTL && ttl <= MaxTTL
}

// ValidateDNSRecord checks form against the zone snapshot existing. recordID names the
// record being updated (it is left out of the snapshot) and is empty on create.
// zoneName is empty when the zone is unknown, which disables the placement rules
// that need it.
//
// Errors are collected per field; every check runs and the first message for a
// field wins.
func ValidateDNSRecord(form models.Record, existing []models.Record, recordID, zoneName string) models.ValidationResult {
	c := &recordCheck{
		record: models.Record{
			ID:    form.ID,
			Name:  NormalizeWhitespace(form.Name),
			Type:  models.RecordType(strings.ToUpper(strings.TrimSpace(string(form.Type)))),
			Value: NormalizeWhitespace(form.Value),
			TTL:   form.TTL,
		},
		zoneName: models.NormalizeDomainName(zoneName),
		existing: withoutRecord(existing, recordID),
		errors:   make(map[string]string),
		warnings: make([]string, 0),
	}

	if !IsValidRecordName(c.record.Name) {
		c.fail(models.FieldName, msgInvalidName)
	}
	if !IsValidTTL(c.record.TTL) {
		c.fail(models.FieldTTL, msgInvalidTTL)
	}

	c.checkCNAMEExclusivity()

	if c.record.Type.IsValid() {
		validate, ok := typeValidators[c.record.Type]
		if !ok {
			panic(fmt.Sprintf("validator: no value validator registered for record type %s", c.record.Type))
		}
		validate(c)
	} else {
		c.fail(models.FieldType, fmt.Sprintf("Unsupported record type: %s", form.Type))
	}

	c.checkDuplicate()
	c.checkTTLUniformity()

	return models.ValidationResult{
		Valid:           len(c.errors) == 0,
		Errors:          c.errors,
		Warnings:        c.warnings,
		NormalizedName:  NormalizeRecordName(c.record.Name),
		NormalizedValue: c.record.Value,
	}
}

// withoutRecord returns the snapshot minus the record being updated
func withoutRecord(records []models.Record, recordID string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if recordID != "" && r.ID == recordID {
			continue
		}
		out = append(out, r)
	}
	return out
}
