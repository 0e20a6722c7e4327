// Primitive Validators
//
// Syntax checks shared by every record-type validator:
// - IPv4: four dot-separated decimal octets, each 0-255, nothing before or after
// - IPv6: parsed by net/netip, must classify as IPv6 (compressed, embedded IPv4
//   and IPv4-mapped forms allowed, zone identifiers rejected)
// - Domain: "@" or labels of at most 63 characters, 255 characters in total,
//   alphanumeric at label edges, hyphen/underscore/backslash inside, optional
//   trailing dot
// - Record name: "@"/empty for the apex, otherwise labels that may also begin or
//   end with a hyphen or underscore (_dmarc, _sip._tcp), 253 characters in total,
//   with an optional leading "*" wildcard label
//
// Examples:
//   192.0.2.1             (valid IPv4)
//   256.1.1.1             (invalid IPv4 - octet out of range)
//   ::ffff:192.0.2.1      (valid IPv6 - mapped)
//   2001:db8::1::1        (invalid IPv6 - two "::")
//   mail.example.com.     (valid domain)
//   _dmarc                (valid record name, invalid domain)

package validator

import (
	"net/netip"
	"strconv"
	"strings"
)

const (
	maxDomainLength     = 255
	maxRecordNameLength = 253
	maxLabelLength      = 63
)

// NormalizeWhitespace trims s and collapses every internal run of whitespace to a single space
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsValidIPv4 reports whether s is a dotted-decimal IPv4 address
func IsValidIPv4(s string) bool {
	_, ok := CanonicalIPv4(s)
	return ok
}

// CanonicalIPv4 parses a dotted-decimal IPv4 address and returns it with leading
// zeros stripped from every octet ("010.0.0.1" becomes "10.0.0.1")
func CanonicalIPv4(s string) (string, bool) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return "", false
	}

	canonical := make([]string, len(octets))
	for i, octet := range octets {
		if len(octet) == 0 || len(octet) > 3 || !isDigits(octet) {
			return "", false
		}
		val, err := strconv.Atoi(octet)
		if err != nil || val > 255 {
			return "", false
		}
		canonical[i] = strconv.Itoa(val)
	}

	return strings.Join(canonical, "."), true
}

// IsValidIPv6 reports whether s parses as an IPv6 address
func IsValidIPv6(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	return addr.Is6() && addr.Zone() == ""
}

// IsIPAddress reports whether s is an IPv4 or IPv6 literal
func IsIPAddress(s string) bool {
	return IsValidIPv4(s) || IsValidIPv6(s)
}

// IsValidDomain reports whether s is a syntactically valid domain name or "@"
func IsValidDomain(s string) bool {
	if s == "@" {
		return true
	}
	if len(s) == 0 || len(s) > maxDomainLength {
		return false
	}

	s = strings.TrimSuffix(s, ".")
	if len(s) == 0 {
		return false
	}

	for _, label := range strings.Split(s, ".") {
		if !isValidDomainLabel(label) {
			return false
		}
	}

	return true
}

// IsValidRecordName reports whether s is usable as a zone-relative owner name
func IsValidRecordName(s string) bool {
	if s == "" || s == "@" {
		return true
	}
	if len(s) > maxRecordNameLength {
		return false
	}

	labels := strings.Split(s, ".")
	for i, label := range labels {
		if i == 0 && label == "*" {
			continue
		}
		if !isValidRecordLabel(label) {
			return false
		}
	}

	return true
}

// isValidDomainLabel requires alphanumeric edges; hyphen, underscore and backslash may appear inside
func isValidDomainLabel(label string) bool {
	if len(label) == 0 || len(label) > maxLabelLength {
		return false
	}
	if !isAlphanumeric(label[0]) || !isAlphanumeric(label[len(label)-1]) {
		return false
	}

	for i := 1; i < len(label)-1; i++ {
		c := label[i]
		if !isAlphanumeric(c) && c != '-' && c != '_' && c != '\\' {
			return false
		}
	}

	return true
}

func isValidRecordLabel(label string) bool {
	if len(label) == 0 || len(label) > maxLabelLength {
		return false
	}

	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isAlphanumeric(c) && c != '-' && c != '_' {
			return false
		}
	}

	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// parseUint16 accepts only plain decimal digits in the 0-65535 range
func parseUint16(s string) (uint16, bool) {
	if !isDigits(s) {
		return 0, false
	}
	val, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(val), true
}
