package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Storage keeps each key as one object in a Cloud Storage bucket. It
// satisfies repository.Repository.
type Storage struct {
	bucketName string
	prefix     string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client. Object names are the key
// under prefix.
func NewStorage(ctx context.Context, bucketName, prefix string, clientOpts ...option.ClientOption) (*Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &Storage{
		bucketName: bucketName,
		prefix:     prefix,
		client:     client,
	}, nil
}

func (s *Storage) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucketName).Object(path.Join(s.prefix, key))
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	reader, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to read from storage", goerr.V("key", key), goerr.V("bucket", s.bucketName))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to read object", goerr.V("key", key))
	}
	return string(data), true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	writer := s.object(key).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := io.WriteString(writer, value); err != nil {
		_ = writer.Close()
		return s.writeError(err, key)
	}
	if err := writer.Close(); err != nil {
		return s.writeError(err, key)
	}
	return nil
}

func (s *Storage) writeError(err error, key string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusInsufficientStorage:
			return goerr.Wrap(model.ErrStorageQuotaExceeded, apiErr.Message,
				goerr.V("key", key),
				goerr.V("code", apiErr.Code))
		}
	}
	return goerr.Wrap(err, "failed to write to storage", goerr.V("key", key), goerr.V("bucket", s.bucketName))
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("key", key), goerr.V("bucket", s.bucketName))
	}
	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
