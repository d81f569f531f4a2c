package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func loginCommand(cfg *config) *cli.Command {
	var username, password string

	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the SeeFood service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "User name",
				Sources:     cli.EnvVars("SEEFOOD_USERNAME"),
				Destination: &username,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Password (prompted when omitted)",
				Sources:     cli.EnvVars("SEEFOOD_PASSWORD"),
				Destination: &password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if password == "" {
				pw, err := readPassword(c)
				if err != nil {
					return err
				}
				password = pw
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			_, authUC, err := cfg.newSeeFood(ctx, repo)
			if err != nil {
				return err
			}

			user, err := authUC.Login(ctx, username, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Logged in as %s\n", user.Username())
			return nil
		},
	}
}

func logoutCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the saved login",
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			_, authUC, err := cfg.newSeeFood(ctx, repo)
			if err != nil {
				return err
			}
			if err := authUC.Logout(ctx); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Logged out\n")
			return nil
		},
	}
}

func whoamiCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the logged in user",
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			_, authUC, err := cfg.newSeeFood(ctx, repo)
			if err != nil {
				return err
			}

			user, err := authUC.Restore(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to restore login")
			}
			if user == nil {
				fmt.Fprintf(c.Root().Writer, "Not logged in\n")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", user.Username())
			return nil
		},
	}
}
