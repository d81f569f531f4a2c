package history

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
)

// Save persists records and returns what was actually written, or nil when
// nothing could be persisted. records must be most recent first.
//
// The collection is cut to maxItems and inline image data is stripped. If
// the result still serializes over maxBytes, the oldest records are dropped
// one at a time until it fits or a single record is left. When the store
// rejects the write as full, only the first minimalItems of records are kept
// with identifying fields, and if that also fails the key is removed. Any
// other write error leaves the store untouched.
func (c *Cache) Save(ctx context.Context, records []*model.HistoryRecord) []*model.HistoryRecord {
	logger := logging.From(ctx)

	limited := records[:min(len(records), c.maxItems)]
	cleaned := make([]*model.HistoryRecord, 0, len(limited))
	for _, r := range limited {
		cleaned = append(cleaned, r.WithoutInlineImages())
	}

	tier := metrics.SaveFull
	data, err := encode(cleaned)
	if err == nil && len(data) > c.maxBytes {
		tier = metrics.SaveTrimmed
		cleaned, data, err = c.trim(cleaned)
	}
	if err != nil {
		logger.Error("failed to encode history records", "error", goerr.Wrap(err, "failed to marshal history"))
		c.metrics.HistorySaved(metrics.SaveFailed)
		return nil
	}

	if err := c.repo.Set(ctx, c.key, string(data)); err != nil {
		if repository.IsQuotaExceeded(err) {
			logger.Warn("history storage is full, keeping minimal records", "error", err)
			return c.saveMinimal(ctx, records)
		}

		logger.Error("failed to save history records", "error", err)
		c.metrics.HistorySaved(metrics.SaveFailed)
		return nil
	}

	if tier == metrics.SaveTrimmed {
		logger.Warn("history records trimmed to fit size limit",
			"kept", len(cleaned),
			"size", len(data),
			"limit", c.maxBytes)
	}
	c.metrics.HistorySaved(tier)
	c.setRecords(cleaned)
	return cleaned
}

// trim pops the oldest record until the encoding fits in maxBytes or one
// record is left. The last encoding is returned without a further check.
func (c *Cache) trim(records []*model.HistoryRecord) ([]*model.HistoryRecord, []byte, error) {
	trimmed := records
	data, err := encode(trimmed)
	for err == nil && len(trimmed) > 1 {
		trimmed = trimmed[:len(trimmed)-1]
		data, err = encode(trimmed)
		if err == nil && len(data) <= c.maxBytes {
			break
		}
	}
	return trimmed, data, err
}

func (c *Cache) saveMinimal(ctx context.Context, records []*model.HistoryRecord) []*model.HistoryRecord {
	logger := logging.From(ctx)

	head := records[:min(len(records), c.minimalItems)]
	minimal := make([]*model.HistoryRecord, 0, len(head))
	for _, r := range head {
		minimal = append(minimal, r.Minimal())
	}

	data, err := encode(minimal)
	if err == nil {
		err = c.repo.Set(ctx, c.key, string(data))
	}
	if err != nil {
		logger.Error("failed to save minimal history records", "error", err)
		if err := c.repo.Remove(ctx, c.key); err != nil {
			logger.Error("failed to remove history storage", "error", err)
		}
		c.metrics.HistorySaved(metrics.SaveFailed)
		return nil
	}

	c.metrics.HistorySaved(metrics.SaveMinimal)
	c.setRecords(minimal)
	return minimal
}
