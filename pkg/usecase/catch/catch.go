package catch

import (
	"context"
	"time"

	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
)

// Recognizer identifies the seafood in a base64 encoded image
type Recognizer interface {
	Recognize(ctx context.Context, base64Image string) (*model.RecognitionResult, error)
}

// History records a successful identification. *history.Cache satisfies it;
// it must already be loaded so that the record merges with existing entries.
type History interface {
	Record(ctx context.Context, record *model.HistoryRecord) []*model.HistoryRecord
}

// UseCase runs the catch flow: identify an image and record it in history
type UseCase struct {
	recognizer Recognizer
	history    History
	metrics    *metrics.Metrics
	now        func() time.Time
}

type Option func(*UseCase)

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCase) {
		uc.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

func New(recognizer Recognizer, history History, opts ...Option) *UseCase {
	uc := &UseCase{
		recognizer: recognizer,
		history:    history,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
