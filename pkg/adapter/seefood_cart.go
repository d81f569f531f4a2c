package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
)

// CartRow is a row of the seafood cart or order list
type CartRow struct {
	CartID    int         `json:"cartId"`
	UserID    string      `json:"userId"`
	SeafoodID int         `json:"seafoodId"`
	Count     int         `json:"count"`
	Payed     bool        `json:"payed"`
	Price     model.Price `json:"price"`
}

// IngredientCartRow is a row of the ingredient cart or order list
type IngredientCartRow struct {
	ICartID    int               `json:"icartId"`
	Ingredient *model.Ingredient `json:"ingredient"`
	Count      int               `json:"count"`
	Price      model.Price       `json:"price"`
	OrderTime  string            `json:"orderTime,omitempty"`
}

// AddIngredientInput is the body of the add-ingredient-to-cart request
type AddIngredientInput struct {
	IngredientID    int     `json:"ingredientId"`
	IngredientName  string  `json:"ingredientName"`
	IngredientPrice float64 `json:"ingredientPrice"`
	IngredientPic   string  `json:"ingredientPic"`
}

func decodeData[T any](env *envelope, what string) (T, error) {
	var v T
	if !env.hasData() {
		return v, nil
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, goerr.Wrap(err, "failed to decode "+what)
	}
	return v, nil
}

func (s *SeeFood) AddSeafoodToCart(ctx context.Context, seafoodID int) error {
	path := "/seefood/purchase/add/" + strconv.Itoa(seafoodID)
	_, err := s.do(ctx, http.MethodPost, path, struct{}{}, codeOKOrLegacy)
	return err
}

func (s *SeeFood) AddIngredientToCart(ctx context.Context, input AddIngredientInput) error {
	_, err := s.do(ctx, http.MethodPost, "/seefood/purchase/addingredienttocart", input, codeOKOrLegacy)
	return err
}

func (s *SeeFood) Like(ctx context.Context, seafoodID int) error {
	_, err := s.do(ctx, http.MethodPut, "/seefood/user/putlike/"+strconv.Itoa(seafoodID), nil, codeOKOrLegacy)
	return err
}

func (s *SeeFood) Unlike(ctx context.Context, seafoodID int) error {
	_, err := s.do(ctx, http.MethodPut, "/seefood/user/deletelike/"+strconv.Itoa(seafoodID), nil, codeOKOrLegacy)
	return err
}

// GetLikes returns the liked seafood of the current user
func (s *SeeFood) GetLikes(ctx context.Context) ([]*model.Seafood, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/user/getLike", nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	return decodeData[[]*model.Seafood](env, "liked seafood")
}

func (s *SeeFood) GetCart(ctx context.Context) ([]*CartRow, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/purchase/getcart", nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	return decodeData[[]*CartRow](env, "seafood cart")
}

func (s *SeeFood) GetIngredientCart(ctx context.Context) ([]*IngredientCartRow, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/purchase/getingredientcart", nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	return decodeData[[]*IngredientCartRow](env, "ingredient cart")
}

func (s *SeeFood) GetOrders(ctx context.Context) ([]*CartRow, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/purchase/getorder", nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	return decodeData[[]*CartRow](env, "seafood orders")
}

func (s *SeeFood) GetIngredientOrders(ctx context.Context) ([]*IngredientCartRow, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/purchase/getingredientorder", nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	return decodeData[[]*IngredientCartRow](env, "ingredient orders")
}

// UpdateCart sets the quantity of a seafood cart row. Zero removes the row.
func (s *SeeFood) UpdateCart(ctx context.Context, cartID, count int) error {
	path := "/seefood/purchase/updatecart/" + strconv.Itoa(cartID) + "/" + strconv.Itoa(count)
	_, err := s.do(ctx, http.MethodPut, path, nil, codeOKOrLegacy)
	return err
}

// UpdateIngredientCart sets the quantity of an ingredient cart row. Zero removes the row.
func (s *SeeFood) UpdateIngredientCart(ctx context.Context, iCartID, count int) error {
	path := "/seefood/purchase/update/" + strconv.Itoa(iCartID) + "/" + strconv.Itoa(count)
	_, err := s.do(ctx, http.MethodPut, path, nil, codeOKOrLegacy)
	return err
}

// seafoodDetail accepts both shapes of the item detail payload
type seafoodDetail struct {
	Seafood   *model.Seafood `json:"seafood"`
	SeafoodPO *model.Seafood `json:"seafoodPO"`
}

// GetSeafoodDetail returns the catalog entry of a seafood. It returns nil
// without error when the payload carries no entry.
func (s *SeeFood) GetSeafoodDetail(ctx context.Context, seafoodID int) (*model.Seafood, error) {
	env, err := s.do(ctx, http.MethodGet, "/seefood/item/detail/"+strconv.Itoa(seafoodID), nil, codeOKOrLegacy)
	if err != nil {
		return nil, err
	}
	detail, err := decodeData[seafoodDetail](env, "seafood detail")
	if err != nil {
		return nil, err
	}
	if detail.Seafood != nil {
		return detail.Seafood, nil
	}
	return detail.SeafoodPO, nil
}

// PaySeafood pays the given seafood cart rows. The server answers 1 on
// success and 0 on failure.
func (s *SeeFood) PaySeafood(ctx context.Context, cartIDs []int) error {
	return s.pay(ctx, "/seefood/purchase/gotopaycart", cartIDs)
}

func (s *SeeFood) PayIngredients(ctx context.Context, iCartIDs []int) error {
	return s.pay(ctx, "/seefood/purchase/gotopayicart", iCartIDs)
}

func (s *SeeFood) pay(ctx context.Context, path string, ids []int) error {
	if len(ids) == 0 {
		return goerr.Wrap(model.ErrNoPayableItems, "no cart identifiers given", goerr.V("path", path))
	}

	env, err := s.do(ctx, http.MethodPost, path, ids, codeOKOrLegacy)
	if err != nil {
		return err
	}

	result, err := decodeData[int](env, "payment result")
	if err != nil {
		return err
	}
	if result != 1 {
		return goerr.Wrap(model.ErrPaymentFailed, "server rejected payment",
			goerr.V("result", result),
			goerr.V("ids", ids))
	}
	return nil
}
