package validator

import (
	"strings"

	"github.com/miekg/dns"

	"zonewarden.io/internal/models"
)

const (
	reverseIPv4Suffix = "in-addr.arpa"
	reverseIPv6Suffix = "ip6.arpa"
)

// GetReverseZoneType classifies a zone by its name suffix
func GetReverseZoneType(zoneName string) models.ZoneKind {
	zone := models.NormalizeDomainName(zoneName)
	switch {
	case zone == reverseIPv4Suffix || strings.HasSuffix(zone, "."+reverseIPv4Suffix):
		return models.ZoneReverseIPv4
	case zone == reverseIPv6Suffix || strings.HasSuffix(zone, "."+reverseIPv6Suffix):
		return models.ZoneReverseIPv6
	default:
		return models.ZoneForward
	}
}

// IsReverseZone reports whether zoneName is an in-addr.arpa or ip6.arpa zone
func IsReverseZone(zoneName string) bool {
	return GetReverseZoneType(zoneName) != models.ZoneForward
}

// DetectZoneOverlap reports the first existing zone that is a parent or child of zoneName.
// Comparison is by whole labels and ignores case; an exact match is a plain duplicate
// and is not reported here.
func DetectZoneOverlap(zoneName string, existing []string) models.OverlapResult {
	candidate := models.NormalizeDomainName(zoneName)
	if candidate == "" {
		return models.OverlapResult{}
	}
	candidate = dns.Fqdn(candidate)

	for _, name := range existing {
		other := models.NormalizeDomainName(name)
		if other == "" {
			continue
		}
		other = dns.Fqdn(other)

		if other == candidate {
			continue
		}
		if dns.IsSubDomain(other, candidate) || dns.IsSubDomain(candidate, other) {
			return models.OverlapResult{HasOverlap: true, ConflictingZone: name}
		}
	}

	return models.OverlapResult{}
}
