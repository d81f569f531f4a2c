package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/usecase/catch"
	"github.com/urfave/cli/v3"
)

func catchCommand(cfg *config) *cli.Command {
	var imagePath string

	return &cli.Command{
		Name:  "catch",
		Usage: "Identify the seafood in a photo and record it in history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "image",
				Aliases:     []string{"i"},
				Usage:       "Path to the image file",
				Destination: &imagePath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return goerr.Wrap(err, "failed to read image", goerr.V("path", imagePath))
			}
			uri := imagePath
			if abs, err := filepath.Abs(imagePath); err == nil {
				uri = "file://" + filepath.ToSlash(abs)
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			client, _, err := cfg.newSeeFood(ctx, repo)
			if err != nil {
				return err
			}
			recognizer, err := cfg.newRecognizer(ctx, client)
			if err != nil {
				return err
			}

			cache := cfg.newHistory(ctx, repo)
			uc := catch.New(recognizer, cache, catch.WithMetrics(cfg.metrics), catch.WithClock(timeNow))

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.Root().ErrWriter))
			spin.Suffix = " Identifying..."
			spin.Start()
			result, err := uc.Identify(ctx, catch.ImageInput{URI: uri, Data: data})
			spin.Stop()
			if err != nil {
				return err
			}

			printIdentification(c.Root().Writer, result)
			return nil
		},
	}
}

func printIdentification(w io.Writer, result *catch.Identification) {
	s := result.Summary
	fmt.Fprintf(w, "%s\n\n", s.Name)
	fmt.Fprintf(w, "Nutrition & flavor:\n  %s\n\n", s.NutritionFlavor)
	fmt.Fprintf(w, "%s\n", s.Recipes)
	if s.FullRecipes != s.Recipes {
		for _, line := range strings.Split(s.FullRecipes, "\n") {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	fmt.Fprintf(w, "\nIngredients:\n")
	for _, ing := range s.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	if !result.Persisted {
		fmt.Fprintf(w, "\n(history could not be saved)\n")
	}
}
