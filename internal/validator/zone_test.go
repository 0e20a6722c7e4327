package validator

import (
	"errors"
	"testing"

	"zonewarden.io/internal/models"
)

func TestGetReverseZoneType(t *testing.T) {
	tests := []struct {
		zone string
		want models.ZoneKind
	}{
		{"example.com", models.ZoneForward},
		{"2.0.192.in-addr.arpa", models.ZoneReverseIPv4},
		{"2.0.192.IN-ADDR.ARPA.", models.ZoneReverseIPv4},
		{"8.b.d.0.1.0.0.2.ip6.arpa", models.ZoneReverseIPv6},
		{"in-addr.arpa.example.com", models.ZoneForward},
		{"notin-addr.arpa", models.ZoneForward},
		{"", models.ZoneForward},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			if got := GetReverseZoneType(tt.zone); got != tt.want {
				t.Errorf("GetReverseZoneType(%q) = %q, want %q", tt.zone, got, tt.want)
			}
			if got := IsReverseZone(tt.zone); got != (tt.want != models.ZoneForward) {
				t.Errorf("IsReverseZone(%q) = %v", tt.zone, got)
			}
		})
	}
}

func TestDetectZoneOverlap(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		existing []string
		want     models.OverlapResult
	}{
		{"child of existing", "foo.acme.com", []string{"acme.com"}, models.OverlapResult{HasOverlap: true, ConflictingZone: "acme.com"}},
		{"parent of existing", "acme.com", []string{"foo.acme.com"}, models.OverlapResult{HasOverlap: true, ConflictingZone: "foo.acme.com"}},
		{"siblings", "bar.example.com", []string{"foo.example.com"}, models.OverlapResult{}},
		{"exact match skipped", "ACME.com", []string{"acme.com"}, models.OverlapResult{}},
		{"suffix without label boundary", "notacme.com", []string{"acme.com"}, models.OverlapResult{}},
		{"first conflict wins", "a.b.c", []string{"x.y", "c", "b.c"}, models.OverlapResult{HasOverlap: true, ConflictingZone: "c"}},
		{"case and trailing dot", "foo.acme.com.", []string{"Acme.COM"}, models.OverlapResult{HasOverlap: true, ConflictingZone: "Acme.COM"}},
		{"reverse zones", "2.0.192.in-addr.arpa", []string{"0.192.in-addr.arpa"}, models.OverlapResult{HasOverlap: true, ConflictingZone: "0.192.in-addr.arpa"}},
		{"no zones", "example.com", nil, models.OverlapResult{}},
		{"empty candidate", "", []string{"example.com"}, models.OverlapResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectZoneOverlap(tt.zone, tt.existing); got != tt.want {
				t.Errorf("DetectZoneOverlap(%q, %v) = %+v, want %+v", tt.zone, tt.existing, got, tt.want)
			}
		})
	}
}

func TestValidateZoneName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{"example.com", "example.com", nil},
		{" Example.COM. ", "example.com", nil},
		{"bücher.example", "xn--bcher-kva.example", nil},
		{"dev.example.co.uk", "dev.example.co.uk", nil},
		{"2.0.192.in-addr.arpa", "2.0.192.in-addr.arpa", nil},
		{"com", "", ErrPublicSuffix},
		{"co.uk", "", ErrPublicSuffix},
		{"", "", ErrZoneNameEmpty},
		{"@", "", ErrZoneNameApex},
		{"exa mple.com", "", ErrZoneNameInvalid},
		{"-bad.example.com", "", ErrZoneNameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateZoneName(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateZoneName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateZoneName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateZoneName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRecordName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" WWW. ", "www"},
		{"", "@"},
		{"@", "@"},
		{"_dmarc", "_dmarc"},
	}

	for _, tt := range tests {
		if got := NormalizeRecordName(tt.input); got != tt.want {
			t.Errorf("NormalizeRecordName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetFQDN(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{"www", "example.com", "www.example.com"},
		{"@", "example.com.", "example.com"},
		{"", "Example.com", "example.com"},
		{"example.com", "example.com", "example.com"},
		{"host.other.org.", "example.com", "host.other.org"},
		{"www", "", "www"},
	}

	for _, tt := range tests {
		if got := GetFQDN(tt.name, tt.zone); got != tt.want {
			t.Errorf("GetFQDN(%q, %q) = %q, want %q", tt.name, tt.zone, got, tt.want)
		}
	}
}
