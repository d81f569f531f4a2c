package cart

import (
	"context"

	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
)

// Client is the part of the SeeFood API used by the cart
type Client interface {
	GetCart(ctx context.Context) ([]*adapter.CartRow, error)
	GetIngredientCart(ctx context.Context) ([]*adapter.IngredientCartRow, error)
	GetOrders(ctx context.Context) ([]*adapter.CartRow, error)
	GetIngredientOrders(ctx context.Context) ([]*adapter.IngredientCartRow, error)
	GetSeafoodDetail(ctx context.Context, seafoodID int) (*model.Seafood, error)
	AddSeafoodToCart(ctx context.Context, seafoodID int) error
	AddIngredientToCart(ctx context.Context, input adapter.AddIngredientInput) error
	UpdateCart(ctx context.Context, cartID, count int) error
	UpdateIngredientCart(ctx context.Context, iCartID, count int) error
	PaySeafood(ctx context.Context, cartIDs []int) error
	PayIngredients(ctx context.Context, iCartIDs []int) error
	Like(ctx context.Context, seafoodID int) error
	Unlike(ctx context.Context, seafoodID int) error
	GetLikes(ctx context.Context) ([]*model.Seafood, error)
}

type UseCase struct {
	client Client
}

func New(client Client) *UseCase {
	return &UseCase{client: client}
}
