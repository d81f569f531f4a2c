package catch_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/repository"
	"github.com/m-mizutani/seefood/pkg/usecase/catch"
	"github.com/m-mizutani/seefood/pkg/usecase/history"
)

type mockRecognizer struct {
	result *model.RecognitionResult
	err    error
	input  string
}

func (m *mockRecognizer) Recognize(ctx context.Context, base64Image string) (*model.RecognitionResult, error) {
	m.input = base64Image
	return m.result, m.err
}

// failingRepo rejects every write with a non-quota error
type failingRepo struct {
	*repository.Memory
}

func (r *failingRepo) Set(ctx context.Context, key, value string) error {
	return errors.New("permission denied")
}

var now = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

func salmon() *model.RecognitionResult {
	return &model.RecognitionResult{
		Seafood: &model.Seafood{ID: 3, Name: "Salmon", Brief: "Rich in omega-3", Image: "data:image/jpeg;base64,AAAA"},
		Recipes: []*model.Recipe{
			{ID: 1, Name: "Grilled Salmon", Brief: "Grill for 8 minutes"},
		},
		Ingredients: []*model.Ingredient{
			{ID: 9, Name: "Lemon", Price: 1.2},
		},
	}
}

func TestIdentify(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cache := history.New(repo, history.WithClock(clock))
	cache.Load(ctx)

	rec := &mockRecognizer{result: salmon()}
	uc := catch.New(rec, cache, catch.WithClock(clock))

	got, err := uc.Identify(ctx, catch.ImageInput{URI: "file:///tmp/fish.jpg", Data: []byte("jpeg-bytes")})
	gt.NoError(t, err)
	gt.True(t, got.Persisted)
	gt.Equal(t, rec.input, base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")))

	gt.Equal(t, got.Record.SeafoodName, "Salmon")
	gt.Equal(t, got.Record.ImageURI, "file:///tmp/fish.jpg")
	gt.Equal(t, got.Record.Timestamp, now.UnixMilli())
	gt.Equal(t, string(got.Record.ID), "1792143000000")

	gt.Equal(t, got.Summary.NutritionFlavor, "Rich in omega-3")
	gt.Equal(t, got.Summary.Recipes, "Recommended recipes: Grilled Salmon")
	gt.A(t, got.Summary.Ingredients).Length(1)

	records := cache.Records()
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].SeafoodName, "Salmon")
	// persisted copy has inline images stripped
	gt.Equal(t, records[0].Result.Seafood.Image, "")

	stored, found, err := repo.Get(ctx, history.StorageKey)
	gt.NoError(t, err)
	gt.True(t, found)
	gt.S(t, stored).Contains(`"seafoodName":"Salmon"`)
}

func TestIdentifySameSpeciesTwice(t *testing.T) {
	ctx := context.Background()
	current := now
	tick := func() time.Time { return current }

	cache := history.New(repository.NewMemory(), history.WithClock(tick))
	cache.Load(ctx)
	uc := catch.New(&mockRecognizer{result: salmon()}, cache, catch.WithClock(tick))

	first, err := uc.Identify(ctx, catch.ImageInput{URI: "a", Data: []byte("1")})
	gt.NoError(t, err)

	current = now.Add(time.Minute)
	_, err = uc.Identify(ctx, catch.ImageInput{URI: "b", Data: []byte("2")})
	gt.NoError(t, err)

	records := cache.Records()
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].ID, first.Record.ID)
	gt.Equal(t, records[0].Timestamp, current.UnixMilli())
}

func TestIdentifyFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("recognizer error creates no record", func(t *testing.T) {
		repo := repository.NewMemory()
		cache := history.New(repo)
		cache.Load(ctx)
		uc := catch.New(&mockRecognizer{err: model.ErrAPIFailure}, cache)

		_, err := uc.Identify(ctx, catch.ImageInput{URI: "a", Data: []byte("1")})
		gt.True(t, errors.Is(err, model.ErrAPIFailure))
		gt.A(t, cache.Records()).Length(0)

		_, found, err := repo.Get(ctx, history.StorageKey)
		gt.NoError(t, err)
		gt.False(t, found)
	})

	t.Run("nil result", func(t *testing.T) {
		cache := history.New(repository.NewMemory())
		uc := catch.New(&mockRecognizer{}, cache)

		_, err := uc.Identify(ctx, catch.ImageInput{URI: "a", Data: []byte("1")})
		gt.True(t, errors.Is(err, model.ErrNoSeafoodIdentified))
	})

	t.Run("empty image", func(t *testing.T) {
		rec := &mockRecognizer{result: salmon()}
		uc := catch.New(rec, history.New(repository.NewMemory()))

		_, err := uc.Identify(ctx, catch.ImageInput{URI: "a"})
		gt.Error(t, err)
		gt.Equal(t, rec.input, "")
	})

	t.Run("history failure keeps identification", func(t *testing.T) {
		cache := history.New(&failingRepo{Memory: repository.NewMemory()})
		cache.Load(ctx)
		uc := catch.New(&mockRecognizer{result: salmon()}, cache)

		got, err := uc.Identify(ctx, catch.ImageInput{URI: "a", Data: []byte("1")})
		gt.NoError(t, err)
		gt.False(t, got.Persisted)
		gt.Equal(t, got.Record.SeafoodName, "Salmon")
		gt.A(t, cache.Records()).Length(0)
	})

	t.Run("unnamed seafood", func(t *testing.T) {
		cache := history.New(repository.NewMemory())
		cache.Load(ctx)
		uc := catch.New(&mockRecognizer{result: &model.RecognitionResult{Seafood: &model.Seafood{}}}, cache)

		got, err := uc.Identify(ctx, catch.ImageInput{URI: "a", Data: []byte("1")})
		gt.NoError(t, err)
		gt.Equal(t, got.Record.SeafoodName, model.UnknownSeafoodName)
	})
}
