package history

import (
	"github.com/m-mizutani/seefood/pkg/model"
)

// Merge adds record to existing and returns the result most recent first.
// When an entry with the same SeafoodName exists, only its timestamp is
// bumped; its ID and content are kept and record is discarded. Otherwise
// record is prepended. Neither input is modified.
func Merge(record *model.HistoryRecord, existing []*model.HistoryRecord) []*model.HistoryRecord {
	merged := make([]*model.HistoryRecord, 0, len(existing)+1)

	found := false
	for _, r := range existing {
		if !found && r.SeafoodName == record.SeafoodName {
			bumped := r.Clone()
			bumped.Timestamp = record.Timestamp
			merged = append(merged, bumped)
			found = true
			continue
		}
		merged = append(merged, r)
	}

	if !found {
		merged = append([]*model.HistoryRecord{record}, merged...)
	}

	sortByTimestampDesc(merged)
	return merged
}
