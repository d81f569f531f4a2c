package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/usecase/history"
	"github.com/urfave/cli/v3"
)

func historyCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show and manage catch history",
		Commands: []*cli.Command{
			historyListCommand(cfg),
			historyShowCommand(cfg),
			historyCleanupCommand(cfg),
			historyClearCommand(cfg),
		},
	}
}

func historyListCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catch history, most recent first",
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			cache := cfg.newHistory(ctx, repo)
			records := cache.Records()

			if len(records) == 0 {
				fmt.Fprintf(c.Root().Writer, "No history yet\n")
				return nil
			}

			for _, r := range records {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\n",
					r.ID,
					humanize.RelTime(r.CreatedAt(), timeNow(), "ago", "from now"),
					r.SeafoodName,
				)
			}
			fmt.Fprintf(c.Root().Writer, "%d records, %s\n", len(records), humanize.IBytes(uint64(cache.EncodedSize())))
			return nil
		},
	}
}

func historyShowCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the details of a history record",
		ArgsUsage: "<history-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("history id is required")
			}
			id := model.HistoryID(c.Args().First())

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			for _, r := range cfg.newHistory(ctx, repo).Records() {
				if r.ID != id {
					continue
				}
				w := c.Root().Writer
				s := r.Result.Summarize()
				fmt.Fprintf(w, "%s (%s)\n", r.SeafoodName, r.CreatedAt().Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(w, "Image: %s\n", r.ImageURI)
				fmt.Fprintf(w, "Nutrition & flavor: %s\n", s.NutritionFlavor)
				fmt.Fprintf(w, "%s\n", s.Recipes)
				for _, ing := range s.Ingredients {
					fmt.Fprintf(w, "  - %s\n", ing)
				}
				return nil
			}

			return goerr.New("history record not found", goerr.V("id", id))
		},
	}
}

func historyCleanupCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove history records older than 7 days",
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			cache := history.New(repo, history.WithMetrics(cfg.metrics))
			loaded := cache.Load(ctx)
			kept := cache.CleanupExpired(ctx, timeNow())

			fmt.Fprintf(c.Root().Writer, "%d expired records removed, %d kept\n", len(loaded)-len(kept), len(kept))
			return nil
		},
	}
}

func historyClearCommand(cfg *config) *cli.Command {
	var yes bool

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all catch history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Do not ask for confirmation",
				Destination: &yes,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if !yes {
				ok, err := confirm(c, "Clear all history?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(c.Root().Writer, "Canceled\n")
					return nil
				}
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			cache := cfg.newHistory(ctx, repo)
			if err := cache.ClearAll(ctx); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "History cleared\n")
			return nil
		},
	}
}
