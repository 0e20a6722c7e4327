package validator

import (
	"strings"

	"zonewarden.io/internal/models"
)

const apexName = "@"

// NormalizeRecordName returns the display form of a zone-relative name:
// whitespace collapsed, lowercased, trailing dot removed and "@" for the apex
func NormalizeRecordName(name string) string {
	name = strings.ToLower(strings.TrimSuffix(NormalizeWhitespace(name), "."))
	if name == "" {
		return apexName
	}
	return name
}

// GetFQDN joins a zone-relative record name with its zone. The result carries no trailing dot.
// A name ending in "." is already absolute and is returned without the dot.
func GetFQDN(recordName, zoneName string) string {
	zone := models.NormalizeDomainName(zoneName)
	name := strings.TrimSpace(recordName)

	if strings.HasSuffix(name, ".") {
		return strings.TrimSuffix(name, ".")
	}
	if name == "" || name == apexName {
		return zone
	}
	if zone == "" || strings.EqualFold(name, zone) {
		return name
	}
	return name + "." + zone
}

// isApexName reports whether name denotes the zone apex: "@", empty or the zone name itself
func isApexName(name, zoneName string) bool {
	name = NormalizeRecordName(name)
	if name == apexName {
		return true
	}
	zone := models.NormalizeDomainName(zoneName)
	return zone != "" && name == zone
}

// ownerKey is the comparison key for owner names. With a known zone every spelling of
// the same owner ("@", "", "example.com", "WWW", "www.example.com.") maps to one FQDN.
func ownerKey(name, zoneName string) string {
	zone := models.NormalizeDomainName(zoneName)
	if zone == "" {
		return NormalizeRecordName(name)
	}
	if isApexName(name, zone) {
		return zone
	}
	return strings.ToLower(GetFQDN(NormalizeWhitespace(name), zone))
}

// canonicalHost is the comparison form of a hostname value
func canonicalHost(host string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
}
