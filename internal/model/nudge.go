package model

import (
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// NudgeRecurringPayment is the only nudge type produced today.
const NudgeRecurringPayment = "recurring_payment"

// PaymentNudge is a predicted upcoming recurring payment.
type PaymentNudge struct {
	Category string          `json:"category"`
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  civil.Date      `json:"due_date"`
	DaysAway int             `json:"days_away"`
	Type     string          `json:"type"`
}

// MarshalJSON writes Amount as a JSON number.
func (n PaymentNudge) MarshalJSON() ([]byte, error) {
	type plain PaymentNudge
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(n), Number(n.Amount)})
}
