package cli

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/seefood/pkg/utils/logging"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

// timeNow is replaced in tests
var timeNow = time.Now

type runOptions struct {
	reader io.Reader
	writer io.Writer
	errW   io.Writer
}

type Option func(*runOptions)

// WithIO replaces stdin, stdout and stderr of the command
func WithIO(r io.Reader, w, errW io.Writer) Option {
	return func(o *runOptions) {
		o.reader = r
		o.writer = w
		o.errW = errW
	}
}

func Run(ctx context.Context, argv []string, opts ...Option) *Error {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	var cfg config
	flags := globalFlags(&cfg)
	flags = append(flags, apiFlags(&cfg)...)
	flags = append(flags, storeFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	cmd := &cli.Command{
		Name:      "seefood",
		Usage:     "Identify seafood from photos and manage catch history and cart",
		Flags:     flags,
		Reader:    o.reader,
		Writer:    o.writer,
		ErrWriter: o.errW,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := cfg.loadFile(c); err != nil {
				return ctx, err
			}

			logger := logging.New(cfg.logLevel, c.Root().ErrWriter, logging.WithFormat(logging.ParseFormat(cfg.logFormat)))
			logging.SetDefault(logger)
			cfg.metrics = metrics.New()

			return logging.With(ctx, logger), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			cfg.close(ctx)
			if err := cfg.metrics.WriteTextfile(cfg.metricsTextfile); err != nil {
				logging.From(ctx).Warn("failed to write metrics", "error", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			catchCommand(&cfg),
			historyCommand(&cfg),
			loginCommand(&cfg),
			logoutCommand(&cfg),
			whoamiCommand(&cfg),
			cartCommand(&cfg),
			likeCommand(&cfg),
			unlikeCommand(&cfg),
			likesCommand(&cfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.From(ctx).Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
