// NS Record Validation
//
// Validates DNS NS records according to RFC 1035/1912 standards:
// - Value must be the domain name of a nameserver
// - Cannot point to IP addresses (use A/AAAA for nameserver IP)
// - Apex NS records are managed with the zone and cannot be created by hand
// - A nameserver inside the delegating zone needs glue (see placement.go)
//
// Examples:
//   dev  -> ns1.provider.net      (valid delegation)
//   dev  -> ns1.dev.example.com   (valid if ns1.dev has an A/AAAA record)
//   @    -> ns1.provider.net      (invalid - apex)
//   dev  -> 192.0.2.53            (invalid - IP address)

package validator

import "zonewarden.io/internal/models"

func (c *recordCheck) validateNSRecord() {
	if c.isApex() {
		c.fail(models.FieldName, "NS records at the zone apex are managed automatically and cannot be created manually")
		return
	}

	switch {
	case IsIPAddress(c.record.Value):
		c.fail(models.FieldValue, "Nameserver must be a hostname, not an IP address")
	case !IsValidDomain(c.record.Value):
		c.fail(models.FieldValue, "Invalid nameserver hostname format")
	default:
		c.checkGlue()
	}
}
