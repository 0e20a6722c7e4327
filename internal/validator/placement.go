// Zone Placement Policy
//
// Rules that depend on where the record sits inside its zone:
// - In-zone glue: an NS target inside the current zone needs an A or AAAA record
//   at exactly that name before the delegation can be created
// - Reverse-zone PTR names: in an in-addr.arpa zone the name is one decimal
//   octet 0-255, in an ip6.arpa zone one hex nibble, never the apex
//
// Apex NS rejection lives with the NS validator.

package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"

	"zonewarden.io/internal/models"
)

func (c *recordCheck) checkGlue() {
	if c.zoneName == "" {
		return
	}

	target := ResolveTarget(c.record.Value, c.zoneName)
	if !dns.IsSubDomain(dns.Fqdn(c.zoneName), dns.Fqdn(target)) {
		return
	}

	for _, r := range c.existing {
		rt := typeOf(r)
		if rt != models.RecordTypeA && rt != models.RecordTypeAAAA {
			continue
		}
		if ownerKey(r.Name, c.zoneName) == target {
			return
		}
	}

	c.fail(models.FieldValue, fmt.Sprintf(
		"Nameserver %s is inside this zone; create an A or AAAA glue record for it first", target))
}

func (c *recordCheck) checkReverseName() {
	kind := GetReverseZoneType(c.zoneName)
	if kind == models.ZoneForward {
		return
	}

	if c.isApex() {
		c.fail(models.FieldName, "PTR records cannot be created at the apex of a reverse zone")
		return
	}

	name := NormalizeRecordName(c.record.Name)
	switch kind {
	case models.ZoneReverseIPv4:
		if !isReverseOctet(name) {
			c.fail(models.FieldName, "In an IPv4 reverse zone the PTR name must be a single number between 0 and 255")
		}
	case models.ZoneReverseIPv6:
		if len(name) != 1 || !isHexDigit(name[0]) {
			c.fail(models.FieldName, "In an IPv6 reverse zone the PTR name must be a single hexadecimal digit (0-9, a-f)")
		}
	}
}

func isReverseOctet(s string) bool {
	if len(s) > 3 || !isDigits(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n <= 255
}

// ResolveTarget resolves a hostname value against the zone: "@" is the apex, a single
// label is relative to the zone, anything with a dot is absolute. The result is
// lowercase without a trailing dot.
func ResolveTarget(value, zoneName string) string {
	zoneName = models.NormalizeDomainName(zoneName)
	if value == apexName {
		return zoneName
	}
	host := canonicalHost(value)
	if strings.Contains(host, ".") || strings.HasSuffix(value, ".") {
		return host
	}
	if zoneName == "" {
		return host
	}
	return host + "." + zoneName
}
