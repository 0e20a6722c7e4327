// MX Record Validation
//
// Validates DNS MX records according to RFC 1035/7505 standards:
// - Value is "<priority> <hostname>"
// - Priority is a decimal number 0-65535
// - Hostname must be a valid domain name
// - Cannot point to IP addresses (use A/AAAA for the mail server)
// - Supports null MX "0 ." (RFC 7505 - no mail accepted); "." with any other
//   priority is rejected
//
// Examples:
//   10 mail.example.com   (valid mail server)
//   20 mx1.provider.net.  (valid FQDN)
//   0 .                   (valid null MX)
//   10 192.0.2.10         (invalid - IP address)
//   mail.example.com      (invalid - missing priority)
//   70000 mail            (invalid - priority out of range)

package validator

import (
	"strings"

	"zonewarden.io/internal/models"
)

func (c *recordCheck) validateMXRecord() {
	fields := strings.Fields(c.record.Value)
	if len(fields) != 2 {
		c.fail(models.FieldValue, "MX record must be in the format: <priority> <hostname>")
		return
	}

	priority, ok := parseUint16(fields[0])
	if !ok {
		c.fail(models.FieldValue, "MX priority must be a number between 0 and 65535")
		return
	}

	host := fields[1]
	switch {
	case host == ".":
		if priority != 0 {
			c.fail(models.FieldValue, "A null MX (\".\") must have priority 0")
		}
	case IsIPAddress(host):
		c.fail(models.FieldValue, "MX hostname must be a domain name, not an IP address")
	case !IsValidDomain(host):
		c.fail(models.FieldValue, "Invalid MX hostname format")
	}
}
