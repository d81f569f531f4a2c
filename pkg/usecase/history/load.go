package history

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

// Load reads the persisted history, most recent first. Read and parse errors
// are logged and yield an empty history; Load never fails.
func (c *Cache) Load(ctx context.Context) []*model.HistoryRecord {
	records, err := c.read(ctx)
	if err != nil {
		logging.From(ctx).Error("failed to load history records", "error", err)
		c.metrics.HistoryReadFailed()
		return []*model.HistoryRecord{}
	}

	sortByTimestampDesc(records)
	c.setRecords(records)
	return records
}

// read returns the stored records in stored order. An absent key is an empty
// history.
func (c *Cache) read(ctx context.Context) ([]*model.HistoryRecord, error) {
	data, found, err := c.repo.Get(ctx, c.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read history", goerr.V("key", c.key))
	}
	if !found || data == "" {
		return []*model.HistoryRecord{}, nil
	}

	records, err := decode(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse history", goerr.V("key", c.key), goerr.V("size", len(data)))
	}
	return records, nil
}
