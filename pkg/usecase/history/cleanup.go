package history

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

// CleanupExpired removes records with timestamp <= now - expireAfter and
// returns the survivors in stored order. The store is written only when
// something was removed; the in-memory copy is kept most recent first.
func (c *Cache) CleanupExpired(ctx context.Context, now time.Time) []*model.HistoryRecord {
	logger := logging.From(ctx)

	records, err := c.read(ctx)
	if err != nil {
		logger.Error("failed to read history for cleanup", "error", err)
		c.metrics.HistoryReadFailed()
		return []*model.HistoryRecord{}
	}

	threshold := now.Add(-c.expireAfter).UnixMilli()
	recent := slices.DeleteFunc(slices.Clone(records), func(r *model.HistoryRecord) bool {
		return r.Timestamp <= threshold
	})

	removed := len(records) - len(recent)
	if removed == 0 {
		return recent
	}

	data, err := encode(recent)
	if err != nil {
		logger.Error("failed to encode history for cleanup", "error", goerr.Wrap(err, "failed to marshal history"))
		return recent
	}
	if err := c.repo.Set(ctx, c.key, string(data)); err != nil {
		logger.Error("failed to write history after cleanup", "error", err, "removed", removed)
		return recent
	}

	logger.Debug("expired history records removed", "removed", removed, "remaining", len(recent))
	c.metrics.HistoryExpired(removed)
	sorted := slices.Clone(recent)
	sortByTimestampDesc(sorted)
	c.setRecords(sorted)
	return recent
}
