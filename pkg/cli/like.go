package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/urfave/cli/v3"
)

func likeCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Add a seafood to favorites",
		ArgsUsage: "<seafood-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := parseID(c, "seafood id")
			if err != nil {
				return err
			}
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			if err := uc.Like(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Liked %d\n", id)
			return nil
		},
	}
}

func unlikeCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:      "unlike",
		Usage:     "Remove a seafood from favorites",
		ArgsUsage: "<seafood-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := parseID(c, "seafood id")
			if err != nil {
				return err
			}
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			if err := uc.Unlike(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Unliked %d\n", id)
			return nil
		},
	}
}

func likesCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "likes",
		Usage: "List favorite seafood",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			likes, err := uc.Likes(ctx)
			if err != nil {
				return err
			}
			if len(likes) == 0 {
				fmt.Fprintf(c.Root().Writer, "No favorites yet\n")
				return nil
			}
			for _, s := range likes {
				name := s.Name
				if name == "" {
					name = model.UnknownSeafoodName
				}
				fmt.Fprintf(c.Root().Writer, "%d\t%s\t%s\n", s.ID, name, s.Tags)
			}
			return nil
		},
	}
}
