package model

import (
	"strconv"

	"github.com/google/uuid"
)

type CartKind string

const (
	CartKindSeafood    CartKind = "seafood"
	CartKindIngredient CartKind = "ingredient"
)

// CartKey identifies a cart item across refetches
type CartKey string

// NewCartKey derives the key from the server side identifier. When the server
// gives no positive identifier, a random key is assigned instead.
func NewCartKey(kind CartKind, serverID int) CartKey {
	if serverID > 0 {
		return CartKey(string(kind) + ":" + strconv.Itoa(serverID))
	}
	return CartKey(string(kind) + ":" + uuid.New().String())
}

// CartItem is one row of the seafood or ingredient cart
type CartItem struct {
	Key          CartKey
	Kind         CartKind
	Name         string
	Image        string
	Quantity     int
	Price        float64
	CartID       int
	ICartID      int
	SeafoodID    int
	IngredientID int
}

// Amount returns price times quantity
func (x *CartItem) Amount() float64 {
	return x.Price * float64(x.Quantity)
}
