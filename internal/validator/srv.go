// SRV Record Validation
//
// Validates DNS SRV records according to RFC 2782 standards:
// - Value is "<priority> <weight> <port> <target>"
// - Priority, weight and port are decimal numbers 0-65535
// - Target must be a valid domain name, never an IP address
// - Target "." means the service is decidedly not available
// - The owner name is usually _service._proto (_sip._tcp), which record-name
//   grammar already permits
//
// Examples:
//   10 60 5060 sip.example.com.      (valid)
//   0 0 443 .                        (valid - service not available)
//   10 60 5060 192.0.2.7             (invalid - IP target)
//   10 60 sip.example.com            (invalid - missing port)
//   10 60 70000 sip.example.com      (invalid - port out of range)

package validator

import (
	"strings"

	"zonewarden.io/internal/models"
)

var srvFieldNames = [3]string{"priority", "weight", "port"}

func (c *recordCheck) validateSRVRecord() {
	fields := strings.Fields(c.record.Value)
	if len(fields) != 4 {
		c.fail(models.FieldValue, "SRV record must be in the format: <priority> <weight> <port> <target>")
		return
	}

	for i, name := range srvFieldNames {
		if _, ok := parseUint16(fields[i]); !ok {
			c.fail(models.FieldValue, "SRV "+name+" must be a number between 0 and 65535")
			return
		}
	}

	target := fields[3]
	switch {
	case target == ".":
	case IsIPAddress(target):
		c.fail(models.FieldValue, "SRV target must be a hostname, not an IP address")
	case !IsValidDomain(target):
		c.fail(models.FieldValue, "Invalid SRV target format")
	}
}
