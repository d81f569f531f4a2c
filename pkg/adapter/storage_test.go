package adapter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/adapter"
)

func TestStorage(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	prefix := "seefood-test/" + time.Now().Format("20060102150405.000000")
	s, err := adapter.NewStorage(ctx, bucket, prefix)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := "@catch_history_records"

	_, found, err := s.Get(ctx, key)
	gt.NoError(t, err)
	gt.False(t, found)

	gt.NoError(t, s.Set(ctx, key, `[{"id":"1"}]`))
	v, found, err := s.Get(ctx, key)
	gt.NoError(t, err)
	gt.True(t, found)
	gt.Equal(t, v, `[{"id":"1"}]`)

	gt.NoError(t, s.Remove(ctx, key))
	gt.NoError(t, s.Remove(ctx, key))
	_, found, err = s.Get(ctx, key)
	gt.NoError(t, err)
	gt.False(t, found)
}
