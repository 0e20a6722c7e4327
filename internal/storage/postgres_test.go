package storage

import (
	"regexp"
	"strings"
	"testing"
)

func TestSchemaRecordValueIndex(t *testing.T) {
	index := regexp.MustCompile(`(?s)CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintRecordValue + `\s+ON zone_records \(([^;]*)\);`)
	m := index.FindStringSubmatch(schemaSQL)
	if m == nil {
		t.Fatalf("schema has no %s index", constraintRecordValue)
	}

	// raw TEXT values past ~2.7kB overflow a btree entry, so the value is indexed by digest
	columns := strings.Split(m[1], ",")
	last := strings.TrimSpace(columns[len(columns)-1])
	if last != "md5(value)" {
		t.Errorf("value column indexed as %q, want md5(value)", last)
	}
}
