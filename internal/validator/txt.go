// TXT Record Validation
//
// Validates DNS TXT records according to RFC 1035 standards:
// - Value cannot be empty
// - A single character-string holds at most 255 octets; longer values are accepted
//   and split into several strings when the zone is written
//
// Examples:
//   v=spf1 include:_spf.example.net ~all    (valid)
//   <300 character DKIM key>                (valid with warning)
//   ""                                      (invalid - empty)

package validator

import "zonewarden.io/internal/models"

// MaxTXTStringLength is the longest single TXT character-string
const MaxTXTStringLength = 255

func (c *recordCheck) validateTXTRecord() {
	if c.record.Value == "" {
		c.fail(models.FieldValue, "TXT record value cannot be empty")
		return
	}

	if len(c.record.Value) > MaxTXTStringLength {
		c.warn("TXT value is longer than 255 characters and will be split into multiple strings")
	}
}
