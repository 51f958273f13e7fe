package model

import (
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TxnType is the direction of money flow relative to the account.
type TxnType string

const (
	TxnCredit TxnType = "CREDIT"
	TxnDebit  TxnType = "DEBIT"
)

// Source marks which account type a merged transaction came from.
type Source string

const (
	SourceBank  Source = "bank"
	SourceMF    Source = "mf"
	SourceStock Source = "stock"
)

// LegacyExpense is the value of Transaction.Type on pre-normalized records
// that flag spend without a txn_type.
const LegacyExpense = "expense"

// Transaction is a normalized record from any source.
type Transaction struct {
	Date      civil.Date      `json:"date"`
	Amount    decimal.Decimal `json:"amount"` // magnitude, never negative
	Narration string          `json:"narration"`
	TxnType   TxnType         `json:"txn_type"`
	Category  string          `json:"category"`
	Source    Source          `json:"source,omitempty"` // empty for single-source parsing
	Type      string          `json:"type,omitempty"`   // legacy flag, see LegacyExpense
}

// MarshalJSON writes Amount as a JSON number.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(t), Number(t.Amount)})
}

// IsSpend reports whether the transaction counts as an outflow in
// spend aggregates.
func (t Transaction) IsSpend() bool {
	return t.TxnType == TxnDebit || t.Type == LegacyExpense
}

// CategoryOrDefault returns the category label, or Others when unset.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return CategoryOthers
	}
	return t.Category
}
