package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/adapter"
	"github.com/m-mizutani/seefood/pkg/model"
)

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// newAPIServer serves fixed JSON bodies per "METHOD /path" and records requests
func newAPIServer(t *testing.T, routes map[string]string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSeeFoodRecognize(t *testing.T) {
	srv, captured := newAPIServer(t, map[string]string{
		"POST /seefood/ai/pic": `{"code":200,"message":"ok","data":{
			"seafoodPO":{"seafoodId":3,"seafoodName":"Salmon","seafoodBrief":"Rich in omega-3","cost":"12.50"},
			"recipePOList":[{"recipeId":1,"recipeName":"Grilled Salmon"}],
			"ingredientPOList":[{"ingredientId":9,"ingredientName":"Lemon","ingredientPrice":1.2}]}}`,
	})

	client := adapter.NewSeeFood(srv.URL)
	result, err := client.Recognize(context.Background(), "aGVsbG8=")
	gt.NoError(t, err)
	gt.Equal(t, result.PrimaryName(), "Salmon")
	gt.Equal(t, result.Seafood.Cost, model.Price(12.5))
	gt.A(t, result.Recipes).Length(1)
	gt.Equal(t, result.Ingredients[0].Price, model.Price(1.2))

	gt.A(t, *captured).Length(1)
	var body map[string]string
	gt.NoError(t, json.Unmarshal([]byte((*captured)[0].Body), &body))
	gt.Equal(t, body["base64"], "aGVsbG8=")
	gt.Equal(t, (*captured)[0].Auth, "")
}

func TestSeeFoodRecognizeFailure(t *testing.T) {
	t.Run("non 200 code", func(t *testing.T) {
		srv, _ := newAPIServer(t, map[string]string{
			"POST /seefood/ai/pic": `{"code":500,"message":"model unavailable"}`,
		})
		_, err := adapter.NewSeeFood(srv.URL).Recognize(context.Background(), "x")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrAPIFailure))
		gt.S(t, err.Error()).Contains("model unavailable")
	})

	t.Run("missing data", func(t *testing.T) {
		srv, _ := newAPIServer(t, map[string]string{
			"POST /seefood/ai/pic": `{"code":200,"message":"ok","data":null}`,
		})
		_, err := adapter.NewSeeFood(srv.URL).Recognize(context.Background(), "x")
		gt.True(t, errors.Is(err, model.ErrAPIFailure))
	})

	t.Run("http error status", func(t *testing.T) {
		srv, _ := newAPIServer(t, map[string]string{})
		_, err := adapter.NewSeeFood(srv.URL).Recognize(context.Background(), "x")
		gt.True(t, errors.Is(err, model.ErrAPIStatus))
	})
}

func TestSeeFoodLogin(t *testing.T) {
	testCases := []struct {
		name     string
		resp     string
		token    string
		username string
	}{
		{
			name:     "token in data",
			resp:     `{"code":200,"data":{"token":"t1","username":"alice"}}`,
			token:    "t1",
			username: "alice",
		},
		{
			name:     "accessToken in data",
			resp:     `{"code":200,"data":{"accessToken":"t2"}}`,
			token:    "t2",
			username: "bob",
		},
		{
			name:     "top level token",
			resp:     `{"code":200,"token":"t3","data":{"username":"carol"}}`,
			token:    "t3",
			username: "carol",
		},
		{
			name:     "no token",
			resp:     `{"code":200,"data":{}}`,
			token:    "",
			username: "bob",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newAPIServer(t, map[string]string{
				"POST /seefood/user/login": tc.resp,
			})
			result, err := adapter.NewSeeFood(srv.URL).Login(context.Background(), "bob", "secret")
			gt.NoError(t, err)
			gt.Equal(t, result.Token, tc.token)
			gt.Equal(t, result.User.Username(), tc.username)
		})
	}
}

func TestSeeFoodBearerToken(t *testing.T) {
	srv, captured := newAPIServer(t, map[string]string{
		"PUT /seefood/user/putlike/7":    `{"code":0,"message":"ok"}`,
		"PUT /seefood/user/deletelike/7": `{"code":200,"message":"ok"}`,
	})

	session := model.NewSession("abc")
	client := adapter.NewSeeFood(srv.URL, adapter.WithSession(session))
	ctx := context.Background()

	gt.NoError(t, client.Like(ctx, 7))
	session.Clear()
	gt.NoError(t, client.Unlike(ctx, 7))

	gt.A(t, *captured).Length(2)
	gt.Equal(t, (*captured)[0].Auth, "Bearer abc")
	gt.Equal(t, (*captured)[0].Body, "")
	gt.Equal(t, (*captured)[1].Auth, "")
}

func TestSeeFoodCart(t *testing.T) {
	srv, captured := newAPIServer(t, map[string]string{
		"GET /seefood/purchase/getcart": `{"code":200,"data":[
			{"cartId":1,"userId":"u","seafoodId":3,"count":2,"payed":false,"price":"10.5"},
			{"cartId":2,"userId":"u","seafoodId":4,"count":1,"payed":true,"price":7}]}`,
		"GET /seefood/purchase/getingredientcart": `{"code":200,"data":[
			{"icartId":5,"ingredient":{"ingredientId":9,"ingredientName":"Lemon","ingredientPrice":1.2,"ingredientPic":"http://x/lemon.png"},"count":3,"price":1.2}]}`,
		"GET /seefood/item/detail/3":                 `{"code":200,"data":{"seafoodPO":{"seafoodId":3,"seafoodName":"Salmon"}}}`,
		"POST /seefood/purchase/add/3":               `{"code":200,"data":1}`,
		"POST /seefood/purchase/addingredienttocart": `{"code":200,"data":1}`,
		"PUT /seefood/purchase/updatecart/1/4":       `{"code":200,"data":1}`,
		"PUT /seefood/purchase/update/5/0":           `{"code":200,"data":1}`,
	})

	client := adapter.NewSeeFood(srv.URL)
	ctx := context.Background()

	rows, err := client.GetCart(ctx)
	gt.NoError(t, err)
	gt.A(t, rows).Length(2)
	gt.Equal(t, rows[0].Price, model.Price(10.5))
	gt.Equal(t, rows[1].Price, model.Price(7))
	gt.True(t, rows[1].Payed)

	irows, err := client.GetIngredientCart(ctx)
	gt.NoError(t, err)
	gt.A(t, irows).Length(1)
	gt.Equal(t, irows[0].ICartID, 5)
	gt.Equal(t, irows[0].Ingredient.Name, "Lemon")

	detail, err := client.GetSeafoodDetail(ctx, 3)
	gt.NoError(t, err)
	gt.Equal(t, detail.Name, "Salmon")

	gt.NoError(t, client.AddSeafoodToCart(ctx, 3))
	gt.NoError(t, client.AddIngredientToCart(ctx, adapter.AddIngredientInput{
		IngredientID:    9,
		IngredientName:  "Lemon",
		IngredientPrice: 1.2,
		IngredientPic:   "http://x/lemon.png",
	}))
	gt.NoError(t, client.UpdateCart(ctx, 1, 4))
	gt.NoError(t, client.UpdateIngredientCart(ctx, 5, 0))

	var added map[string]any
	for _, req := range *captured {
		if req.Path == "/seefood/purchase/addingredienttocart" {
			gt.NoError(t, json.Unmarshal([]byte(req.Body), &added))
		}
		if req.Path == "/seefood/purchase/add/3" {
			gt.Equal(t, req.Body, "{}")
		}
	}
	gt.Equal(t, added["ingredientName"], any("Lemon"))
	gt.Equal(t, added["ingredientId"], any(float64(9)))
}

func TestSeeFoodPay(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		srv, captured := newAPIServer(t, map[string]string{
			"POST /seefood/purchase/gotopaycart": `{"code":200,"data":1}`,
		})
		gt.NoError(t, adapter.NewSeeFood(srv.URL).PaySeafood(context.Background(), []int{1, 2}))
		gt.Equal(t, (*captured)[0].Body, "[1,2]")
	})

	t.Run("rejected", func(t *testing.T) {
		srv, _ := newAPIServer(t, map[string]string{
			"POST /seefood/purchase/gotopayicart": `{"code":200,"data":0}`,
		})
		err := adapter.NewSeeFood(srv.URL).PayIngredients(context.Background(), []int{5})
		gt.True(t, errors.Is(err, model.ErrPaymentFailed))
	})

	t.Run("nothing to pay", func(t *testing.T) {
		srv, captured := newAPIServer(t, map[string]string{})
		err := adapter.NewSeeFood(srv.URL).PaySeafood(context.Background(), nil)
		gt.True(t, errors.Is(err, model.ErrNoPayableItems))
		gt.A(t, *captured).Length(0)
	})
}
