// A Record Validation
//
// Validates DNS A records according to RFC 1035 standards:
// - Value must be a dotted-decimal IPv4 address
// - Exactly four octets, each 0-255
// - No leading/trailing characters, no CIDR suffix
// - Leading zeros are accepted and stripped from the stored value
//
// Examples:
//   192.0.2.1             (valid)
//   10.0.0.255            (valid)
//   010.0.0.1             (valid, stored as 10.0.0.1)
//   256.1.1.1             (invalid - octet out of range)
//   192.0.2               (invalid - three octets)
//   192.0.2.1/24          (invalid - prefix length)

package validator

import "zonewarden.io/internal/models"

func (c *recordCheck) validateARecord() {
	canonical, ok := CanonicalIPv4(c.record.Value)
	if !ok {
		c.fail(models.FieldValue, "Invalid IPv4 address format")
		return
	}
	c.record.Value = canonical
}
