// CNAME Record Validation
//
// Validates DNS CNAME records according to RFC 1034/2181 standards:
// - Value must be a valid domain name
// - Cannot be an IP address (use A/AAAA)
// - Cannot be placed at the zone apex, which always holds SOA and NS
// - Cannot share its name with any other record (see consistency.go)
//
// Examples:
//   www -> example.com.           (valid)
//   @   -> example.net            (invalid - apex)
//   ftp -> 192.0.2.1              (invalid - IP address)

package validator

import "zonewarden.io/internal/models"

func (c *recordCheck) validateCNAMERecord() {
	if c.isApex() {
		c.fail(models.FieldName, "CNAME records cannot be created at the zone apex")
	}

	switch {
	case IsIPAddress(c.record.Value):
		c.fail(models.FieldValue, "CNAME target must be a hostname, not an IP address")
	case !IsValidDomain(c.record.Value):
		c.fail(models.FieldValue, "Invalid domain name format")
	}
}
