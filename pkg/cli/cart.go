package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/usecase/cart"
	"github.com/urfave/cli/v3"
)

func (cfg *config) newCart(ctx context.Context) (*cart.UseCase, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	client, _, err := cfg.newSeeFood(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !client.LoggedIn() {
		return nil, goerr.Wrap(model.ErrNotLoggedIn, "run `seefood login` first")
	}
	return cart.New(client), nil
}

func parseID(c *cli.Command, name string) (int, error) {
	if c.Args().Len() != 1 {
		return 0, goerr.New(name + " is required")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id <= 0 {
		return 0, goerr.New("invalid "+name, goerr.V("value", c.Args().First()))
	}
	return id, nil
}

func printCartItems(w io.Writer, items []*model.CartItem) {
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d x $%.2f\t$%.2f\n",
			item.Key,
			item.Name,
			item.Quantity,
			item.Price,
			item.Amount(),
		)
	}
}

func cartCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Manage the seafood and ingredient cart",
		Commands: []*cli.Command{
			cartListCommand(cfg),
			cartOrdersCommand(cfg),
			cartAddSeafoodCommand(cfg),
			cartAddIngredientCommand(cfg),
			cartSetCommand(cfg),
			cartPayCommand(cfg),
		},
	}
}

func cartListCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List unpaid cart items",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			items, err := uc.List(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(c.Root().Writer, "Cart is empty\n")
				return nil
			}

			printCartItems(c.Root().Writer, items)
			all := cart.NewSelection()
			all.SelectAll(items, model.CartKindSeafood)
			all.SelectAll(items, model.CartKindIngredient)
			fmt.Fprintf(c.Root().Writer, "Total: $%.2f\n", all.Total(items))
			return nil
		},
	}
}

func cartOrdersCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "List paid orders",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			items, err := uc.Orders(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(c.Root().Writer, "No orders yet\n")
				return nil
			}
			printCartItems(c.Root().Writer, items)
			return nil
		},
	}
}

func cartAddSeafoodCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:      "add-seafood",
		Usage:     "Add a seafood to the cart",
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
			if err := uc.AddSeafood(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Added to cart\n")
			return nil
		},
	}
}

func cartAddIngredientCommand(cfg *config) *cli.Command {
	var (
		id    int64
		name  string
		price float64
		pic   string
	)

	return &cli.Command{
		Name:  "add-ingredient",
		Usage: "Add an ingredient to the cart",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "id",
				Usage:       "Ingredient ID",
				Destination: &id,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Ingredient name",
				Destination: &name,
			},
			&cli.FloatFlag{
				Name:        "price",
				Usage:       "Ingredient price",
				Destination: &price,
			},
			&cli.StringFlag{
				Name:        "pic",
				Usage:       "Ingredient picture URL",
				Destination: &pic,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			ingredient := &model.Ingredient{
				ID:    int(id),
				Name:  name,
				Price: model.Price(price),
				Pic:   pic,
			}
			if err := uc.AddIngredient(ctx, ingredient); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Added to cart\n")
			return nil
		},
	}
}

func cartSetCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Change the quantity of a cart item (0 removes it)",
		ArgsUsage: "<key> <count>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("key and count are required")
			}
			key := model.CartKey(c.Args().Get(0))
			count, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return goerr.Wrap(err, "invalid count", goerr.V("count", c.Args().Get(1)))
			}

			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			items, err := uc.List(ctx)
			if err != nil {
				return err
			}
			for _, item := range items {
				if item.Key == key {
					if err := uc.SetQuantity(ctx, item, count); err != nil {
						return err
					}
					fmt.Fprintf(c.Root().Writer, "Updated %s\n", item.Name)
					return nil
				}
			}
			return goerr.New("cart item not found", goerr.V("key", key))
		},
	}
}

func cartPayCommand(cfg *config) *cli.Command {
	var kind string

	return &cli.Command{
		Name:  "pay",
		Usage: "Pay selected cart items of one kind",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "Item kind to pay (seafood, ingredient)",
				Value:       string(model.CartKindSeafood),
				Destination: &kind,
			},
			&cli.StringSliceFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Cart item key to pay (default: all items of the kind)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newCart(ctx)
			if err != nil {
				return err
			}
			items, err := uc.List(ctx)
			if err != nil {
				return err
			}

			selected := c.StringSlice("select")
			sel := cart.NewSelection()
			for _, k := range selected {
				sel.Toggle(model.CartKey(k))
			}
			if len(selected) == 0 {
				sel.SelectAll(items, model.CartKind(kind))
			}

			var result *cart.PayResult
			switch model.CartKind(kind) {
			case model.CartKindSeafood:
				result, err = uc.PaySeafood(ctx, sel.Selected(items))
			case model.CartKindIngredient:
				result, err = uc.PayIngredients(ctx, sel.Selected(items))
			default:
				return goerr.New("unknown kind", goerr.V("kind", kind))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Paid %d items, $%.2f\n", len(result.Paid), result.Amount)
			if len(result.Skipped) > 0 {
				fmt.Fprintf(c.Root().Writer, "%d items could not be paid, refresh the cart and try again\n", len(result.Skipped))
			}
			return nil
		},
	}
}
