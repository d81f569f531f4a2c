package catch

import (
	"context"
	"encoding/base64"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

// ImageInput is a captured or picked image
type ImageInput struct {
	// URI is the local reference stored in history
	URI  string
	Data []byte
}

// Identification is the outcome of one catch
type Identification struct {
	Record  *model.HistoryRecord
	Summary *model.Summary
	// Persisted is false when the history could not be saved
	Persisted bool
}

// Identify sends the image to the recognizer and records the result. A
// recognition failure creates no history record.
func (u *UseCase) Identify(ctx context.Context, input ImageInput) (*Identification, error) {
	if len(input.Data) == 0 {
		return nil, goerr.New("image is empty", goerr.V("uri", input.URI))
	}

	logger := logging.From(ctx)
	logger.Debug("identifying image", "uri", input.URI, "size", len(input.Data))

	result, err := u.recognizer.Recognize(ctx, base64.StdEncoding.EncodeToString(input.Data))
	if err != nil {
		u.metrics.Identified(false)
		return nil, goerr.Wrap(err, "failed to identify image", goerr.V("uri", input.URI))
	}
	if result == nil {
		u.metrics.Identified(false)
		return nil, goerr.Wrap(model.ErrNoSeafoodIdentified, "recognizer returned no result", goerr.V("uri", input.URI))
	}
	u.metrics.Identified(true)

	record := model.NewHistoryRecord(u.now(), input.URI, result)
	saved := u.history.Record(ctx, record)

	logger.Info("seafood identified",
		"name", record.SeafoodName,
		"recipes", len(result.Recipes),
		"persisted", saved != nil)

	return &Identification{
		Record:    record,
		Summary:   result.Summarize(),
		Persisted: saved != nil,
	}, nil
}
