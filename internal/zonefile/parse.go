// Package zonefile converts between RFC 1035 master files and zone snapshots and
// runs bulk validation over a parsed file.
package zonefile

import (
	"fmt"
	"io"
	"strings"

	"github.com/miekg/dns"

	"zonewarden.io/internal/models"
)

// SkippedRecord is a resource record the snapshot model cannot hold
type SkippedRecord struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ParseResult holds the records read from one master file
type ParseResult struct {
	Origin  string          `json:"origin"`
	Records []models.Record `json:"records"`
	Skipped []SkippedRecord `json:"skipped"`
}

// Parse reads a master file whose relative names are anchored at origin. Record names in
// the result are relative to origin ("@" for the apex); values use the validator's
// text grammar. Unsupported types and names outside origin are skipped, a syntax
// error fails the whole parse.
func Parse(r io.Reader, origin string) (*ParseResult, error) {
	origin = dns.Fqdn(models.NormalizeDomainName(origin))
	if origin == "." {
		return nil, fmt.Errorf("zone origin cannot be empty")
	}

	zp := dns.NewZoneParser(r, origin, "")
	zp.SetDefaultTTL(defaultTTL)

	result := &ParseResult{
		Origin:  strings.TrimSuffix(origin, "."),
		Records: make([]models.Record, 0),
		Skipped: make([]SkippedRecord, 0),
	}

	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		hdr := rr.Header()
		typeName := dns.TypeToString[hdr.Rrtype]

		name, inZone := relativeName(hdr.Name, origin)
		if !inZone {
			result.Skipped = append(result.Skipped, SkippedRecord{Name: hdr.Name, Type: typeName, Reason: "outside zone"})
			continue
		}

		rt, value, supported := recordValue(rr)
		if !supported {
			result.Skipped = append(result.Skipped, SkippedRecord{Name: name, Type: typeName, Reason: "unsupported record type"})
			continue
		}

		result.Records = append(result.Records, models.Record{
			Name:  name,
			Type:  rt,
			Value: value,
			TTL:   int(hdr.Ttl),
		})
	}

	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse zone file: %w", err)
	}

	return result, nil
}

// relativeName strips origin from an owner name
func relativeName(owner, origin string) (string, bool) {
	if strings.EqualFold(owner, origin) {
		return "@", true
	}
	if !dns.IsSubDomain(origin, owner) {
		return "", false
	}
	return strings.ToLower(owner[:len(owner)-len(origin)-1]), true
}

// recordValue renders the RDATA of rr in the validator's value grammar
func recordValue(rr dns.RR) (models.RecordType, string, bool) {
	switch v := rr.(type) {
	case *dns.A:
		return models.RecordTypeA, v.A.String(), true
	case *dns.AAAA:
		return models.RecordTypeAAAA, v.AAAA.String(), true
	case *dns.CNAME:
		return models.RecordTypeCNAME, v.Target, true
	case *dns.NS:
		return models.RecordTypeNS, v.Ns, true
	case *dns.PTR:
		return models.RecordTypePTR, v.Ptr, true
	case *dns.MX:
		return models.RecordTypeMX, fmt.Sprintf("%d %s", v.Preference, v.Mx), true
	case *dns.SRV:
		return models.RecordTypeSRV, fmt.Sprintf("%d %d %d %s", v.Priority, v.Weight, v.Port, v.Target), true
	case *dns.CAA:
		return models.RecordTypeCAA, fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value), true
	case *dns.TXT:
		return models.RecordTypeTXT, strings.Join(v.Txt, ""), true
	case *dns.SOA:
		return models.RecordTypeSOA, fmt.Sprintf("%s %s %d %d %d %d %d",
			v.Ns, v.Mbox, v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl), true
	default:
		return "", "", false
	}
}
