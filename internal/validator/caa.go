// CAA Record Validation
//
// Validates DNS CAA records according to RFC 8659 standards:
// - Value is `<flags> <tag> "<value>"`
// - Flags is a decimal number 0-255 (128 marks the property critical)
// - Tag must be one of: issue, issuewild, iodef (matched case-insensitively)
// - The property value is double-quoted and may be empty
//
// Examples:
//   0 issue "letsencrypt.org"               (valid)
//   0 issuewild ";"                         (valid - deny wildcard issuance)
//   128 iodef "mailto:security@example.com" (valid)
//   0 ISSUE "ca.example.net"                (valid)
//   256 issue "ca.example.net"              (invalid - flags out of range)
//   0 tbs "x"                               (invalid - unknown tag)
//   0 issue letsencrypt.org                 (invalid - unquoted value)

package validator

import (
	"regexp"
	"strconv"
	"strings"

	"zonewarden.io/internal/models"
)

var caaValuePattern = regexp.MustCompile(`^(\d+) (\S+) "([^"]*)"$`)

var caaTags = map[string]bool{
	"issue":     true,
	"issuewild": true,
	"iodef":     true,
}

func (c *recordCheck) validateCAARecord() {
	m := caaValuePattern.FindStringSubmatch(c.record.Value)
	if m == nil {
		c.fail(models.FieldValue, `CAA record must be in the format: <flags> <tag> "<value>"`)
		return
	}

	flags, err := strconv.Atoi(m[1])
	if err != nil || flags > 255 {
		c.fail(models.FieldValue, "CAA flags must be a number between 0 and 255")
		return
	}

	if !caaTags[strings.ToLower(m[2])] {
		c.fail(models.FieldValue, "CAA tag must be one of: issue, issuewild, iodef")
	}
}
