package cart

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
)

func (u *UseCase) AddSeafood(ctx context.Context, seafoodID int) error {
	if seafoodID <= 0 {
		return goerr.New("invalid seafood id", goerr.V("seafood_id", seafoodID))
	}
	if err := u.client.AddSeafoodToCart(ctx, seafoodID); err != nil {
		return goerr.Wrap(err, "failed to add seafood to cart", goerr.V("seafood_id", seafoodID))
	}
	return nil
}

// AddIngredient adds an ingredient of a recognition result. The shop picture
// is preferred over the ingredient image.
func (u *UseCase) AddIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	if ingredient == nil || ingredient.ID <= 0 {
		return goerr.New("invalid ingredient")
	}

	pic := ingredient.Pic
	if pic == "" {
		pic = ingredient.Image
	}
	input := adapter.AddIngredientInput{
		IngredientID:    ingredient.ID,
		IngredientName:  ingredient.Name,
		IngredientPrice: ingredient.Price.Float64(),
		IngredientPic:   pic,
	}
	if err := u.client.AddIngredientToCart(ctx, input); err != nil {
		return goerr.Wrap(err, "failed to add ingredient to cart", goerr.V("ingredient_id", ingredient.ID))
	}
	return nil
}

// SetQuantity changes the quantity of a cart item. Zero removes it.
func (u *UseCase) SetQuantity(ctx context.Context, item *model.CartItem, count int) error {
	if count < 0 {
		return goerr.New("quantity must not be negative", goerr.V("count", count))
	}

	var err error
	switch {
	case item.Kind == model.CartKindIngredient && item.ICartID > 0:
		err = u.client.UpdateIngredientCart(ctx, item.ICartID, count)
	case item.Kind == model.CartKindSeafood && item.CartID > 0:
		err = u.client.UpdateCart(ctx, item.CartID, count)
	default:
		return goerr.New("cart item has no server id", goerr.V("key", item.Key))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to update cart", goerr.V("key", item.Key), goerr.V("count", count))
	}
	return nil
}

func (u *UseCase) Like(ctx context.Context, seafoodID int) error {
	if err := u.client.Like(ctx, seafoodID); err != nil {
		return goerr.Wrap(err, "failed to like seafood", goerr.V("seafood_id", seafoodID))
	}
	return nil
}

func (u *UseCase) Unlike(ctx context.Context, seafoodID int) error {
	if err := u.client.Unlike(ctx, seafoodID); err != nil {
		return goerr.Wrap(err, "failed to unlike seafood", goerr.V("seafood_id", seafoodID))
	}
	return nil
}

func (u *UseCase) Likes(ctx context.Context) ([]*model.Seafood, error) {
	likes, err := u.client.GetLikes(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get liked seafood")
	}
	return likes, nil
}
