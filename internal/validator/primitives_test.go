package validator

import (
	"strconv"
	"strings"
	"testing"
)

func TestIsValidIPv4(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"192.0.2.1", true},
		{"0.0.0.0", true},
		{"255.255.255.255", true},
		{"010.1.1.1", true},
		{"256.1.1.1", false},
		{"1.2.3", false},
		{"1.2.3.4.5", false},
		{"a.b.c.d", false},
		{"1..2.3", false},
		{" 1.2.3.4", false},
		{"1.2.3.4/24", false},
		{"+1.2.3.4", false},
		{"1000.1.1.1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidIPv4(tt.input); got != tt.want {
				t.Errorf("IsValidIPv4(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalIPv4(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"192.0.2.1", "192.0.2.1", true},
		{"010.0.0.1", "10.0.0.1", true},
		{"000.001.010.100", "0.1.10.100", true},
		{"256.0.0.1", "", false},
		{"1.2.3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CanonicalIPv4(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CanonicalIPv4(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsValidIPv4AllOctets(t *testing.T) {
	for octet := 0; octet <= 300; octet++ {
		s := strings.Repeat(strconv.Itoa(octet)+".", 3) + strconv.Itoa(octet)
		want := octet <= 255
		if got := IsValidIPv4(s); got != want {
			t.Errorf("IsValidIPv4(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestIsValidIPv6(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2001:db8::1", true},
		{"2001:DB8::1", true},
		{"::1", true},
		{"::", true},
		{"1:2:3:4:5:6:7:8", true},
		{"::ffff:192.0.2.1", true},
		{"64:ff9b::192.0.2.33", true},
		{"2001:db8::1::2", false},
		{"1:2:3:4:5:6:7:8:9", false},
		{"2001:db8::g", false},
		{"12345::1", false},
		{"192.0.2.1", false},
		{"example.com", false},
		{"fe80::1%eth0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidIPv6(tt.input); got != tt.want {
				t.Errorf("IsValidIPv6(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsIPAddress(t *testing.T) {
	for _, s := range []string{"192.0.2.1", "2001:db8::1"} {
		if !IsIPAddress(s) {
			t.Errorf("IsIPAddress(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"mail.example.com", "", "10"} {
		if IsIPAddress(s) {
			t.Errorf("IsIPAddress(%q) = true, want false", s)
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"example.com", true},
		{"example.com.", true},
		{"@", true},
		{"localhost", true},
		{"mail-1.example.com", true},
		{"in_ternal.example", true},
		{strings.Repeat("a", 63) + ".com", true},
		{strings.Repeat("a", 64) + ".com", false},
		{strings.Repeat("a.", 128) + "com", false},
		{"-bad.com", false},
		{"bad-.com", false},
		{"_dmarc.example.com", false},
		{"a..b", false},
		{"ex ample.com", false},
		{".", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidDomain(tt.input); got != tt.want {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidRecordName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"@", true},
		{"www", true},
		{"_dmarc", true},
		{"_sip._tcp", true},
		{"-edge-", true},
		{"*", true},
		{"*.dev", true},
		{"a.b.c", true},
		{"www.", false},
		{"a..b", false},
		{"w*w", false},
		{"dev.*", false},
		{"ex ample", false},
		{strings.Repeat("a", 64), false},
		{strings.TrimSuffix(strings.Repeat(strings.Repeat("a", 50)+".", 5), "."), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidRecordName(tt.input); got != tt.want {
				t.Errorf("IsValidRecordName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  a   b\t c \n", "a b c"},
		{"plain", "plain"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.input); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
