package models

import (
	"slices"
	"testing"
)

func TestParseRecordType(t *testing.T) {
	tests := []struct {
		input   string
		want    RecordType
		wantErr bool
	}{
		{"A", RecordTypeA, false},
		{"cname", RecordTypeCNAME, false},
		{" aaaa ", RecordTypeAAAA, false},
		{"SPF", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRecordType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecordType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRecordType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllRecordTypesIsACopy(t *testing.T) {
	types := AllRecordTypes()
	types[0] = "BOGUS"
	if !RecordTypeA.IsValid() || RecordType("BOGUS").IsValid() {
		t.Error("mutating the returned slice changed the supported set")
	}
}

func TestRecordSet(t *testing.T) {
	set := NewRecordSet("www", RecordTypeA)
	if !set.IsEmpty() {
		t.Fatal("new set should be empty")
	}

	for _, ttl := range []int{300, 3600, 300} {
		if err := set.Add(Record{Name: "www", Type: RecordTypeA, Value: "192.0.2.1", TTL: ttl}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := set.Add(Record{Name: "www", Type: RecordTypeAAAA, Value: "::1", TTL: 300}); err == nil {
		t.Error("expected a type mismatch error")
	}

	if got := set.TTLs(); !slices.Equal(got, []int{300, 3600}) {
		t.Errorf("TTLs() = %v, want [300 3600]", got)
	}
}

func TestNormalizeDomainName(t *testing.T) {
	if got := NormalizeDomainName("  WWW.Example.COM. "); got != "www.example.com" {
		t.Errorf("NormalizeDomainName = %q", got)
	}
}
