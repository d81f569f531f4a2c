package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	collection := fmt.Sprintf("seefood_test_%d_%d", time.Now().Unix(), rand.Intn(100000))
	repo, err := repository.NewFirestore(context.Background(), projectID, databaseID, nil,
		repository.WithCollection(collection))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestFirestore(t *testing.T) {
	testRepository(t, setupFirestore(t))
}

func TestFirestoreSlashKey(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	gt.NoError(t, repo.Set(ctx, "a/b", "v"))
	v, found, err := repo.Get(ctx, "a/b")
	gt.NoError(t, err)
	gt.True(t, found)
	gt.Equal(t, v, "v")
	gt.NoError(t, repo.Remove(ctx, "a/b"))
}
