package validator

import (
	"strings"
	"testing"

	"zonewarden.io/internal/models"
)

func TestCanDeleteRecord(t *testing.T) {
	ns := func(id, name string) models.Record {
		return models.Record{ID: id, Name: name, Type: models.RecordTypeNS, Value: "ns" + id + ".example.net", TTL: 3600}
	}
	soa := models.Record{ID: "soa", Name: "@", Type: models.RecordTypeSOA, Value: "ns1.example.net. hostmaster.example.com. 1 7200 3600 1209600 3600", TTL: 3600}
	a := models.Record{ID: "a", Name: "www", Type: models.RecordTypeA, Value: "192.0.2.1", TTL: 3600}

	tests := []struct {
		name        string
		record      models.Record
		all         []models.Record
		wantDelete  bool
		wantWarning string
	}{
		{"SOA refused", soa, []models.Record{soa}, false, ""},
		{"last apex NS", ns("1", "@"), []models.Record{soa, ns("1", "@")}, true, "last NS"},
		{"second-to-last apex NS", ns("1", "@"), []models.Record{ns("1", "@"), ns("2", "")}, true, "second-to-last"},
		{"third apex NS", ns("1", "@"), []models.Record{ns("1", "@"), ns("2", "@"), ns("3", "@")}, true, ""},
		{"delegation NS", ns("1", "dev"), []models.Record{ns("1", "dev")}, true, ""},
		{"ordinary record", a, []models.Record{a}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanDeleteRecord(tt.record, tt.all)
			if got.CanDelete != tt.wantDelete {
				t.Fatalf("CanDelete = %v, want %v", got.CanDelete, tt.wantDelete)
			}
			if !tt.wantDelete && got.Reason == "" {
				t.Error("refusal without a reason")
			}
			if tt.wantWarning == "" && got.Warning != "" {
				t.Errorf("unexpected warning %q", got.Warning)
			}
			if tt.wantWarning != "" && !strings.Contains(got.Warning, tt.wantWarning) {
				t.Errorf("Warning = %q, want it to contain %q", got.Warning, tt.wantWarning)
			}
		})
	}
}
