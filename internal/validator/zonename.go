// Zone Name Validation
//
// Validates names offered for new zones:
// - Internationalized names are converted to their ASCII (punycode) form
// - The ASCII form must pass domain grammar; "@" is refused
// - A bare public suffix ("com", "co.uk", "github.io") cannot be hosted as a zone,
//   checked against the Public Suffix List (golang.org/x/net/publicsuffix)
// - Reverse zones (in-addr.arpa, ip6.arpa) are allowed
//
// Examples:
//   example.com               → example.com
//   Bücher.example            → xn--bcher-kva.example
//   2.0.192.in-addr.arpa      → 2.0.192.in-addr.arpa
//   co.uk                     (invalid - public suffix)
//   exa mple.com              (invalid - grammar)

package validator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"zonewarden.io/internal/models"
)

var (
	ErrZoneNameEmpty   = errors.New("zone name cannot be empty")
	ErrZoneNameApex    = errors.New("zone name cannot be \"@\"")
	ErrZoneNameInvalid = errors.New("invalid zone name format")
	ErrPublicSuffix    = errors.New("zone name is a public suffix")
)

// ValidateZoneName returns the normalized ASCII form of a zone name offered for creation
func ValidateZoneName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "":
		return "", ErrZoneNameEmpty
	case apexName:
		return "", ErrZoneNameApex
	}

	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(name, "."))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrZoneNameInvalid, name, err)
	}

	zone := models.NormalizeDomainName(ascii)
	if !IsValidDomain(zone) || zone == apexName {
		return "", fmt.Errorf("%w: %s", ErrZoneNameInvalid, name)
	}

	if IsReverseZone(zone) {
		return zone, nil
	}

	if suffix, _ := publicsuffix.PublicSuffix(zone); suffix == zone {
		return "", fmt.Errorf("%w: %s", ErrPublicSuffix, zone)
	}

	return zone, nil
}
