package cart

import (
	"context"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

const unknownIngredientName = "Unknown ingredient"

// List returns the unpaid seafood rows followed by the ingredient rows. Keys
// are derived from server identifiers so they stay the same across calls.
func (u *UseCase) List(ctx context.Context) ([]*model.CartItem, error) {
	seafood, err := u.listSeafood(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := u.listIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return append(seafood, ingredients...), nil
}

// Orders returns the paid seafood and ingredient rows
func (u *UseCase) Orders(ctx context.Context) ([]*model.CartItem, error) {
	rows, err := u.client.GetOrders(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get seafood orders")
	}
	irows, err := u.client.GetIngredientOrders(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get ingredient orders")
	}
	return append(u.seafoodItems(ctx, rows, false), ingredientItems(irows)...), nil
}

func (u *UseCase) listSeafood(ctx context.Context) ([]*model.CartItem, error) {
	rows, err := u.client.GetCart(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get seafood cart")
	}
	return u.seafoodItems(ctx, rows, true), nil
}

func (u *UseCase) seafoodItems(ctx context.Context, rows []*adapter.CartRow, unpaidOnly bool) []*model.CartItem {
	logger := logging.From(ctx)
	details := map[int]*model.Seafood{}
	var items []*model.CartItem
	for _, row := range rows {
		if row == nil || (unpaidOnly && row.Payed) {
			continue
		}

		keyID := row.CartID
		if keyID <= 0 {
			keyID = row.SeafoodID
		}
		item := &model.CartItem{
			Key:       model.NewCartKey(model.CartKindSeafood, keyID),
			Kind:      model.CartKindSeafood,
			Name:      "Item " + strconv.Itoa(keyID),
			Quantity:  quantity(row.Count),
			Price:     row.Price.Float64(),
			CartID:    max(row.CartID, 0),
			SeafoodID: row.SeafoodID,
		}

		if row.SeafoodID > 0 {
			detail, ok := details[row.SeafoodID]
			if !ok {
				var err error
				detail, err = u.client.GetSeafoodDetail(ctx, row.SeafoodID)
				if err != nil {
					logger.Debug("seafood detail unavailable", "seafood_id", row.SeafoodID, "error", err)
				}
				details[row.SeafoodID] = detail
			}
			item.Name = "Item " + strconv.Itoa(row.SeafoodID)
			if detail != nil {
				if detail.Name != "" {
					item.Name = detail.Name
				}
				item.Image = detail.Image
			}
		}

		items = append(items, item)
	}
	return items
}

func (u *UseCase) listIngredients(ctx context.Context) ([]*model.CartItem, error) {
	rows, err := u.client.GetIngredientCart(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get ingredient cart")
	}
	return ingredientItems(rows), nil
}

func ingredientItems(rows []*adapter.IngredientCartRow) []*model.CartItem {
	var items []*model.CartItem
	for _, row := range rows {
		if row == nil {
			continue
		}
		ing := row.Ingredient
		if ing == nil {
			ing = &model.Ingredient{}
		}

		keyID := row.ICartID
		if keyID <= 0 {
			keyID = ing.ID
		}
		item := &model.CartItem{
			Key:          model.NewCartKey(model.CartKindIngredient, keyID),
			Kind:         model.CartKindIngredient,
			Name:         ing.Name,
			Image:        ing.Pic,
			Quantity:     quantity(row.Count),
			Price:        row.Price.Float64(),
			ICartID:      max(row.ICartID, 0),
			IngredientID: ing.ID,
		}
		if item.Name == "" {
			item.Name = unknownIngredientName
		}
		items = append(items, item)
	}
	return items
}

// a missing count means one unit
func quantity(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}
