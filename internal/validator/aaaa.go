// AAAA Record Validation
//
// Validates DNS AAAA records according to RFC 3596 standards:
// - Value must be an IPv6 address in any RFC 4291 text form
// - Compressed "::", uppercase hex and embedded IPv4 tails are accepted
// - A bare IPv4 address is rejected (use an A record)
// - Zone identifiers ("%eth0") are rejected
//
// Examples:
//   2001:db8::1           (valid)
//   ::ffff:192.0.2.1      (valid - IPv4-mapped)
//   2001:DB8:0:0:0:0:0:1  (valid)
//   2001:db8::1::2        (invalid - two "::")
//   192.0.2.1             (invalid - IPv4)

package validator

import "zonewarden.io/internal/models"

func (c *recordCheck) validateAAAARecord() {
	if !IsValidIPv6(c.record.Value) {
		c.fail(models.FieldValue, "Invalid IPv6 address format")
	}
}
