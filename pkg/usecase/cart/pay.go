package cart

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"github.com/m-mizutani/seefood/pkg/utils/logging"
)

// PayResult reports a successful payment
type PayResult struct {
	Paid    []model.CartKey
	Skipped []model.CartKey
	Amount  float64
}

// PaySeafood pays the seafood items among items that have a server cart id
func (u *UseCase) PaySeafood(ctx context.Context, items []*model.CartItem) (*PayResult, error) {
	return u.pay(ctx, items, model.CartKindSeafood, func(item *model.CartItem) int { return item.CartID }, u.client.PaySeafood)
}

// PayIngredients pays the ingredient items among items that have a server
// ingredient cart id
func (u *UseCase) PayIngredients(ctx context.Context, items []*model.CartItem) (*PayResult, error) {
	return u.pay(ctx, items, model.CartKindIngredient, func(item *model.CartItem) int { return item.ICartID }, u.client.PayIngredients)
}

func (u *UseCase) pay(
	ctx context.Context,
	items []*model.CartItem,
	kind model.CartKind,
	serverID func(*model.CartItem) int,
	send func(context.Context, []int) error,
) (*PayResult, error) {
	result := &PayResult{}
	var ids []int
	for _, item := range items {
		if item.Kind != kind {
			continue
		}
		id := serverID(item)
		if id <= 0 {
			result.Skipped = append(result.Skipped, item.Key)
			continue
		}
		ids = append(ids, id)
		result.Paid = append(result.Paid, item.Key)
		result.Amount += item.Amount()
	}

	if len(ids) == 0 {
		return nil, goerr.Wrap(model.ErrNoPayableItems, "no selected item has a cart id", goerr.V("kind", kind))
	}
	if len(result.Skipped) > 0 {
		logging.From(ctx).Warn("some items cannot be paid", "kind", kind, "skipped", len(result.Skipped))
	}

	if err := send(ctx, ids); err != nil {
		return nil, goerr.Wrap(err, "failed to pay", goerr.V("kind", kind), goerr.V("ids", ids))
	}

	logging.From(ctx).Info("cart paid", "kind", kind, "items", len(ids), "amount", result.Amount)
	return result, nil
}
