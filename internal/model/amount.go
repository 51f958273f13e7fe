package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number renders d as a bare JSON number.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
