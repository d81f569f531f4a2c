package history

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

// Record merges record into the in-memory history and saves the result. The
// in-memory history changes only when the save succeeds. It returns the
// persisted records, or nil when persistence failed.
func (c *Cache) Record(ctx context.Context, record *model.HistoryRecord) []*model.HistoryRecord {
	merged := Merge(record, c.Records())
	saved := c.Save(ctx, merged)
	if saved == nil {
		logging.From(ctx).Warn("history kept in memory only", "seafood", record.SeafoodName)
	}
	return saved
}

// ClearAll deletes the persisted history and empties the in-memory copy
func (c *Cache) ClearAll(ctx context.Context) error {
	if err := c.repo.Remove(ctx, c.key); err != nil {
		return goerr.Wrap(err, "failed to clear history", goerr.V("key", c.key))
	}
	c.setRecords(nil)
	return nil
}
