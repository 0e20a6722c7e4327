package validator

import (
	"zonewarden.io/internal/models"
)

// CanDeleteRecord is the advisory check run before a record is removed. SOA records are
// never deletable. Removing one of the last two apex NS records is allowed with a warning.
func CanDeleteRecord(record models.Record, all []models.Record) models.DeleteCheck {
	switch typeOf(record) {
	case models.RecordTypeSOA:
		return models.DeleteCheck{
			CanDelete: false,
			Reason:    "SOA records cannot be deleted",
		}

	case models.RecordTypeNS:
		if NormalizeRecordName(record.Name) != apexName {
			break
		}

		apexNS := 0
		for _, r := range all {
			if typeOf(r) == models.RecordTypeNS && NormalizeRecordName(r.Name) == apexName {
				apexNS++
			}
		}

		switch apexNS {
		case 0, 1:
			return models.DeleteCheck{
				CanDelete: true,
				Warning:   "This is the last NS record at the zone apex; the zone will not resolve without nameservers",
			}
		case 2:
			return models.DeleteCheck{
				CanDelete: true,
				Warning:   "This is the second-to-last NS record at the zone apex; at least two nameservers are recommended",
			}
		}
	}

	return models.DeleteCheck{CanDelete: true}
}
