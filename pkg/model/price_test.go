package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/model"
)

func TestPriceUnmarshal(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect model.Price
	}{
		{"number", `{"cost":3}`, 3},
		{"numeric string", `{"cost":"12.50"}`, 12.5},
		{"empty string", `{"cost":""}`, 0},
		{"null", `{"cost":null}`, 0},
		{"NaN string", `{"cost":"NaN"}`, 0},
		{"Inf string", `{"cost":"-Inf"}`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seafood model.Seafood
			gt.NoError(t, json.Unmarshal([]byte(tc.input), &seafood))
			gt.Equal(t, seafood.Cost, tc.expect)

			// decoded prices must encode back for the history to persist
			_, err := json.Marshal(&seafood)
			gt.NoError(t, err)
		})
	}

	t.Run("invalid string", func(t *testing.T) {
		var seafood model.Seafood
		gt.Error(t, json.Unmarshal([]byte(`{"cost":"cheap"}`), &seafood))
	})
}
