package zonefile

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/miekg/dns"

	"zonewarden.io/internal/models"
	"zonewarden.io/internal/validator"
)

const defaultTTL = 3600

var caaValue = regexp.MustCompile(`^(\d+)\s+(\S+)\s+"([^"]*)"$`)

// Render writes records as a master file for zoneName. SOA records come first, the rest
// keep their order. A record that cannot be expressed as RDATA fails the render.
func Render(zoneName string, records []models.Record) (string, error) {
	zone := models.NormalizeDomainName(zoneName)
	if zone == "" {
		return "", fmt.Errorf("zone name cannot be empty")
	}

	rrs := make([]dns.RR, 0, len(records))
	var soa []dns.RR
	for _, rec := range records {
		rr, err := ToRR(rec, zone)
		if err != nil {
			return "", fmt.Errorf("record %s %s: %w", rec.Name, rec.Type, err)
		}
		if rr.Header().Rrtype == dns.TypeSOA {
			soa = append(soa, rr)
			continue
		}
		rrs = append(rrs, rr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$ORIGIN %s\n", dns.Fqdn(zone))
	for _, rr := range append(soa, rrs...) {
		b.WriteString(rr.String())
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// ToRR converts a snapshot record into a dns.RR with absolute names
func ToRR(rec models.Record, zoneName string) (dns.RR, error) {
	rt, err := models.ParseRecordType(string(rec.Type))
	if err != nil {
		return nil, err
	}

	ttl := rec.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	hdr := dns.RR_Header{
		Name:  dns.Fqdn(validator.GetFQDN(validator.NormalizeRecordName(rec.Name), zoneName)),
		Class: dns.ClassINET,
		Ttl:   uint32(ttl),
	}
	value := validator.NormalizeWhitespace(rec.Value)
	fields := strings.Fields(value)

	switch rt {
	case models.RecordTypeA:
		canonical, ok := validator.CanonicalIPv4(value)
		ip := net.ParseIP(canonical).To4()
		if !ok || ip == nil {
			return nil, fmt.Errorf("invalid IPv4 address: %s", value)
		}
		hdr.Rrtype = dns.TypeA
		return &dns.A{Hdr: hdr, A: ip}, nil

	case models.RecordTypeAAAA:
		ip := net.ParseIP(value)
		if ip == nil || (ip.To4() != nil && !strings.Contains(value, ":")) {
			return nil, fmt.Errorf("invalid IPv6 address: %s", value)
		}
		hdr.Rrtype = dns.TypeAAAA
		return &dns.AAAA{Hdr: hdr, AAAA: ip}, nil

	case models.RecordTypeCNAME:
		hdr.Rrtype = dns.TypeCNAME
		return &dns.CNAME{Hdr: hdr, Target: target(value, zoneName)}, nil

	case models.RecordTypeNS:
		hdr.Rrtype = dns.TypeNS
		return &dns.NS{Hdr: hdr, Ns: target(value, zoneName)}, nil

	case models.RecordTypePTR:
		hdr.Rrtype = dns.TypePTR
		return &dns.PTR{Hdr: hdr, Ptr: target(value, zoneName)}, nil

	case models.RecordTypeMX:
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed MX value: %s", value)
		}
		pref, err := strconv.ParseUint(fields[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("malformed MX priority: %w", err)
		}
		hdr.Rrtype = dns.TypeMX
		return &dns.MX{Hdr: hdr, Preference: uint16(pref), Mx: target(fields[1], zoneName)}, nil

	case models.RecordTypeSRV:
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed SRV value: %s", value)
		}
		var nums [3]uint16
		for i := range nums {
			n, err := strconv.ParseUint(fields[i], 10, 16)
			if err != nil {
				return nil, fmt.Errorf("malformed SRV field %q: %w", fields[i], err)
			}
			nums[i] = uint16(n)
		}
		hdr.Rrtype = dns.TypeSRV
		return &dns.SRV{Hdr: hdr, Priority: nums[0], Weight: nums[1], Port: nums[2], Target: target(fields[3], zoneName)}, nil

	case models.RecordTypeCAA:
		m := caaValue.FindStringSubmatch(value)
		if m == nil {
			return nil, fmt.Errorf("malformed CAA value: %s", value)
		}
		flag, err := strconv.ParseUint(m[1], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("malformed CAA flags: %w", err)
		}
		hdr.Rrtype = dns.TypeCAA
		return &dns.CAA{Hdr: hdr, Flag: uint8(flag), Tag: strings.ToLower(m[2]), Value: m[3]}, nil

	case models.RecordTypeTXT:
		hdr.Rrtype = dns.TypeTXT
		return &dns.TXT{Hdr: hdr, Txt: SplitTXT(value)}, nil

	case models.RecordTypeSOA:
		if len(fields) != 7 {
			return nil, fmt.Errorf("malformed SOA value: %s", value)
		}
		var timers [5]uint32
		for i := range timers {
			n, err := strconv.ParseUint(fields[i+2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed SOA field %q: %w", fields[i+2], err)
			}
			timers[i] = uint32(n)
		}
		hdr.Rrtype = dns.TypeSOA
		return &dns.SOA{
			Hdr:     hdr,
			Ns:      target(fields[0], zoneName),
			Mbox:    target(fields[1], zoneName),
			Serial:  timers[0],
			Refresh: timers[1],
			Retry:   timers[2],
			Expire:  timers[3],
			Minttl:  timers[4],
		}, nil
	}

	return nil, fmt.Errorf("unsupported record type: %s", rt)
}

// SplitTXT cuts a TXT value into character-strings of at most 255 bytes
func SplitTXT(value string) []string {
	if len(value) <= validator.MaxTXTStringLength {
		return []string{value}
	}

	chunks := make([]string, 0, len(value)/validator.MaxTXTStringLength+1)
	for len(value) > validator.MaxTXTStringLength {
		chunks = append(chunks, value[:validator.MaxTXTStringLength])
		value = value[validator.MaxTXTStringLength:]
	}
	if value != "" {
		chunks = append(chunks, value)
	}
	return chunks
}

func target(value, zoneName string) string {
	if value == "." {
		return "."
	}
	return dns.Fqdn(validator.ResolveTarget(value, zoneName))
}
