// Name-Scoped Consistency
//
// Rules that compare the candidate with the records already at its owner name:
// - CNAME exclusivity (RFC 1034 3.6.2, RFC 2181 10.1): a name holding a CNAME holds
//   nothing else, checked in both directions
// - Exact duplicates: the same (name, type, value) may exist once
// - TTL uniformity (RFC 2181 5.2): all records of one RRset share a TTL
//
// Values are compared semantically, so "2001:DB8::1" duplicates "2001:db8:0::1" and
// "Mail.Example.com." duplicates "mail.example.com".

package validator

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"zonewarden.io/internal/models"
)

func (c *recordCheck) checkCNAMEExclusivity() {
	for _, r := range c.existing {
		if !c.sameOwner(r) {
			continue
		}

		existingType := typeOf(r)
		switch {
		case c.record.Type == models.RecordTypeCNAME && existingType == models.RecordTypeCNAME:
			c.fail(models.FieldName, "A CNAME record already exists at this name; only one CNAME is allowed per name")
			return
		case c.record.Type == models.RecordTypeCNAME:
			c.fail(models.FieldName, fmt.Sprintf("A CNAME record cannot coexist with other records at this name (found %s record)", existingType))
			return
		case existingType == models.RecordTypeCNAME:
			c.fail(models.FieldName, fmt.Sprintf("A CNAME record already exists at this name; %s records cannot be added alongside it", c.record.Type))
			return
		}
	}
}

func (c *recordCheck) checkDuplicate() {
	want := valueKey(c.record.Type, c.record.Value)
	for _, r := range c.existing {
		if typeOf(r) != c.record.Type || !c.sameOwner(r) {
			continue
		}
		if valueKey(c.record.Type, r.Value) == want {
			c.fail(models.FieldValue, "An identical record already exists")
			return
		}
	}
}

func (c *recordCheck) checkTTLUniformity() {
	set := models.NewRecordSet(ownerKey(c.record.Name, c.zoneName), c.record.Type)
	for _, r := range c.existing {
		if typeOf(r) != c.record.Type || !c.sameOwner(r) {
			continue
		}
		r.Type = c.record.Type
		set.Records = append(set.Records, r)
	}
	if set.IsEmpty() {
		return
	}

	ttls := set.TTLs()
	if len(ttls) == 1 && ttls[0] == c.record.TTL {
		return
	}

	parts := make([]string, len(ttls))
	for i, ttl := range ttls {
		parts[i] = strconv.Itoa(ttl)
	}
	c.fail(models.FieldTTL, fmt.Sprintf("TTL must match the existing %s records at this name (existing TTL: %s)",
		c.record.Type, strings.Join(parts, ", ")))
}

func typeOf(r models.Record) models.RecordType {
	return models.RecordType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
}

// valueKey canonicalizes a record value for equality checks
func valueKey(rt models.RecordType, value string) string {
	value = NormalizeWhitespace(value)

	switch rt {
	case models.RecordTypeA, models.RecordTypeAAAA:
		if canonical, ok := CanonicalIPv4(value); ok {
			return canonical
		}
		if addr, err := netip.ParseAddr(value); err == nil {
			return addr.String()
		}
		return strings.ToLower(value)

	case models.RecordTypeCNAME, models.RecordTypeNS, models.RecordTypePTR:
		return canonicalHost(value)

	case models.RecordTypeMX:
		fields := strings.Fields(value)
		if len(fields) != 2 {
			return value
		}
		return canonicalNumber(fields[0]) + " " + canonicalHost(fields[1])

	case models.RecordTypeSRV:
		fields := strings.Fields(value)
		if len(fields) != 4 {
			return value
		}
		return canonicalNumber(fields[0]) + " " + canonicalNumber(fields[1]) + " " +
			canonicalNumber(fields[2]) + " " + canonicalHost(fields[3])
	}

	return value
}

// canonicalNumber strips leading zeros so "010" and "10" compare equal
func canonicalNumber(s string) string {
	if n, ok := parseUint16(s); ok {
		return strconv.Itoa(int(n))
	}
	return s
}
