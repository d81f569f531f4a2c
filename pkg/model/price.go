package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Price is a monetary amount. The server sends it either as a JSON number
// or as a numeric string, so both are accepted. An empty string and
// non-finite values are zero.
type Price float64

func (x *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*x = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "failed to decode price string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*x = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return goerr.Wrap(err, "invalid price", goerr.V("value", s))
		}
		// NaN and Inf cannot be encoded back to JSON
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		*x = Price(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return goerr.Wrap(err, "failed to decode price", goerr.V("value", string(data)))
	}
	*x = Price(v)
	return nil
}

func (x Price) Float64() float64 {
	return float64(x)
}
