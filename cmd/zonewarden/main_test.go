package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zonewarden.io/internal/models"
	"zonewarden.io/internal/zonefile"
)

const cleanZone = `$TTL 3600
@    IN SOA ns1.example.net. hostmaster.example.com. 1 7200 3600 1209600 3600
@    IN NS  ns1.example.net.
www  IN A   192.0.2.1
@    IN TXT "v=spf1 -all"
`

// the CNAME collides with the A record above it
const conflictZone = cleanZone + "www IN CNAME web.example.net.\n"

func writeZone(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.com.zone")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing zone file: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean zone", func(t *testing.T) {
		out, err := run(t, "check", writeZone(t, cleanZone), "--origin", "example.com")
		if err != nil {
			t.Fatalf("check: %v\n%s", err, out)
		}
		if !strings.Contains(out, "example.com: 2 accepted, 0 rejected") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		if !strings.Contains(out, "2 managed") {
			t.Errorf("SOA and apex NS should be reported as managed:\n%s", out)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		out, err := run(t, "check", writeZone(t, conflictZone), "--origin", "example.com")
		if err == nil || !strings.Contains(err.Error(), "1 record(s) rejected") {
			t.Fatalf("err = %v, want one rejection", err)
		}
		if !strings.Contains(out, "REJECT") || !strings.Contains(out, "entry-5") {
			t.Errorf("rejection line missing:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "check", writeZone(t, conflictZone), "--origin", "example.com", "--json")
		if err == nil {
			t.Fatal("expected an error for a rejected record")
		}

		var report zonefile.Report
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("decoding report: %v\n%s", err, out)
		}
		if report.Accepted != 2 || report.Rejected != 1 {
			t.Errorf("accepted=%d rejected=%d, want 2 and 1", report.Accepted, report.Rejected)
		}
	})

	t.Run("missing origin", func(t *testing.T) {
		if _, err := run(t, "check", writeZone(t, cleanZone)); err == nil {
			t.Error("expected an error without --origin")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "check", filepath.Join(t.TempDir(), "nope.zone"), "--origin", "example.com")
		if err == nil || !strings.Contains(err.Error(), "opening zone file") {
			t.Errorf("err = %v, want an open error", err)
		}
	})
}

func TestRecordCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		wantField string
	}{
		{
			name: "valid A",
			args: []string{"--origin", "example.com", "--name", "api", "--type", "A", "--value", "192.0.2.10"},
		},
		{
			name:      "bad IPv4",
			args:      []string{"--origin", "example.com", "--name", "api", "--type", "A", "--value", "300.1.1.1"},
			wantErr:   true,
			wantField: models.FieldValue,
		},
		{
			name:      "CNAME over existing A",
			args:      []string{"--origin", "example.com", "--name", "www", "--type", "CNAME", "--value", "web.example.net"},
			wantErr:   true,
			wantField: models.FieldName,
		},
		{
			name: "replacing the A itself",
			args: []string{"--origin", "example.com", "--name", "www", "--type", "A", "--value", "192.0.2.2", "--id", "entry-3"},
		},
	}

	zone := writeZone(t, cleanZone)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"record", "--zonefile", zone}, tt.args...)
			out, err := run(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}

			var result models.ValidationResult
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				t.Fatalf("decoding result: %v\n%s", err, out)
			}
			if tt.wantField != "" {
				if _, ok := result.Errors[tt.wantField]; !ok {
					t.Errorf("expected an error on %q, got %v", tt.wantField, result.Errors)
				}
			}
		})
	}
}

func TestOverlapCommand(t *testing.T) {
	out, err := run(t, "overlap", "dev.example.com", "example.com", "example.org")
	if err == nil {
		t.Fatal("expected an overlap error")
	}
	if !strings.Contains(out, "overlaps example.com") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = run(t, "overlap", "example.net", "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "no overlap") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "zonewarden dev") {
		t.Errorf("unexpected output: %q", out)
	}
}
