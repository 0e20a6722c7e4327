// PTR Record Validation
//
// Validates DNS PTR records according to RFC 1035 standards:
// - Value must be a valid domain name (the host the address maps back to)
// - In a forward zone the owner name follows ordinary record-name rules
// - In a reverse zone the owner name is one address step below the zone
//   (see placement.go)
//
// Examples (zone 2.0.192.in-addr.arpa):
//   45  -> host45.example.com.    (valid)
//   300 -> host.example.com       (invalid - octet out of range)
//   @   -> host.example.com       (invalid - apex)
//
// Examples (zone 0.8.b.d.0.1.0.0.2.ip6.arpa):
//   a   -> host.example.com       (valid)
//   g   -> host.example.com       (invalid - not a hex nibble)

package validator

import "zonewarden.io/internal/models"

func (c *recordCheck) validatePTRRecord() {
	c.checkReverseName()

	if !IsValidDomain(c.record.Value) {
		c.fail(models.FieldValue, "Invalid domain name format")
	}
}
