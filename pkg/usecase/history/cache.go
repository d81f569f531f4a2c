package history

import (
	"cmp"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
)

const (
	// StorageKey is the single key holding the whole history collection
	StorageKey = "@catch_history_records"

	MaxHistoryItems     = 20
	MaxHistoryBytes     = 5 * 1024 * 1024
	MinimalHistoryItems = 5
	ExpireAfter         = 7 * 24 * time.Hour
)

// Cache keeps the identification history bounded in count and serialized
// size, persisted as one JSON array in a Repository. Callers are expected to
// serialize Load, CleanupExpired, Save and ClearAll; the mutex only guards the
// in-memory copy returned by Records.
type Cache struct {
	repo         repository.Repository
	key          string
	maxItems     int
	maxBytes     int
	minimalItems int
	expireAfter  time.Duration
	now          func() time.Time
	metrics      *metrics.Metrics

	records []*model.HistoryRecord
	mu      sync.RWMutex
}

// Option is a functional option for Cache
type Option func(*Cache)

func WithKey(key string) Option {
	return func(c *Cache) {
		c.key = key
	}
}

func WithMaxItems(n int) Option {
	return func(c *Cache) {
		c.maxItems = n
	}
}

func WithMaxBytes(n int) Option {
	return func(c *Cache) {
		c.maxBytes = n
	}
}

func WithMinimalItems(n int) Option {
	return func(c *Cache) {
		c.minimalItems = n
	}
}

func WithExpireAfter(d time.Duration) Option {
	return func(c *Cache) {
		c.expireAfter = d
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates a history Cache on top of repo
func New(repo repository.Repository, opts ...Option) *Cache {
	c := &Cache{
		repo:         repo,
		key:          StorageKey,
		maxItems:     MaxHistoryItems,
		maxBytes:     MaxHistoryBytes,
		minimalItems: MinimalHistoryItems,
		expireAfter:  ExpireAfter,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Records returns a copy of the in-memory history, most recent first
func (c *Cache) Records() []*model.HistoryRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

func (c *Cache) setRecords(records []*model.HistoryRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = slices.Clone(records)
}

// sortByTimestampDesc orders records most recent first, keeping the relative
// order of equal timestamps.
func sortByTimestampDesc(records []*model.HistoryRecord) {
	slices.SortStableFunc(records, func(a, b *model.HistoryRecord) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
}

func encode(records []*model.HistoryRecord) ([]byte, error) {
	if records == nil {
		records = []*model.HistoryRecord{}
	}
	return json.Marshal(records)
}

func decode(data string) ([]*model.HistoryRecord, error) {
	var records []*model.HistoryRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	// a stored "null" or stray null elements are treated as absent
	return slices.DeleteFunc(records, func(r *model.HistoryRecord) bool { return r == nil }), nil
}

// EncodedSize returns the serialized size in bytes of the in-memory history
func (c *Cache) EncodedSize() int {
	data, err := encode(c.Records())
	if err != nil {
		return 0
	}
	return len(data)
}
