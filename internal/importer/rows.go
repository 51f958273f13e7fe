package importer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

// Bank rows: [amount, narration, date, typeCode].
const (
	bankNumFields    = 4
	bankColAmount    = 0
	bankColNarration = 1
	bankColDate      = 2
	bankColType      = 3
)

// Mutual fund and stock rows: [orderType, date, price, units, amount].
const (
	holdingNumFields    = 5
	holdingColOrderType = 0
	holdingColDate      = 1
	holdingColPrice     = 2
	holdingColUnits     = 3
	holdingColAmount    = 4
)

// Order types on mutual fund and stock rows.
const (
	OrderBuy  = 1
	OrderSell = 2
)

// debitTypeCodes are the bank type codes that mean money left the account.
var debitTypeCodes = map[int]bool{2: true, 6: true, 8: true}

// BankRow is a decoded bank transaction row.
type BankRow struct {
	Amount    decimal.Decimal
	Narration string
	Date      civil.Date
	TypeCode  int
}

// TxnType maps the type code to a direction. Unknown codes are credits.
func (r BankRow) TxnType() model.TxnType {
	if debitTypeCodes[r.TypeCode] {
		return model.TxnDebit
	}
	return model.TxnCredit
}

// Transaction normalizes the row, categorizing its narration with c.
func (r BankRow) Transaction(c *categorize.Categorizer) model.Transaction {
	return model.Transaction{
		Date:      r.Date,
		Amount:    r.Amount.Abs(),
		Narration: r.Narration,
		TxnType:   r.TxnType(),
		Category:  c.Categorize(r.Narration),
	}
}

// DecodeBankRow decodes one positional bank row. It reports false for rows
// that are too short or whose amount, date or type code do not parse.
func DecodeBankRow(raw json.RawMessage) (BankRow, bool) {
	cells, ok := decodeCells(raw, bankNumFields)
	if !ok {
		return BankRow{}, false
	}
	amount, ok := decodeDecimal(cells[bankColAmount])
	if !ok {
		return BankRow{}, false
	}
	narration, ok := decodeString(cells[bankColNarration])
	if !ok {
		return BankRow{}, false
	}
	date, ok := decodeDate(cells[bankColDate])
	if !ok {
		return BankRow{}, false
	}
	code, ok := decodeInt(cells[bankColType])
	if !ok {
		return BankRow{}, false
	}
	return BankRow{Amount: amount, Narration: narration, Date: date, TypeCode: code}, true
}

// HoldingRow is a decoded mutual fund or stock row.
type HoldingRow struct {
	OrderType int
	Date      civil.Date
	Price     decimal.Decimal
	Units     decimal.Decimal
	Amount    decimal.Decimal
}

// TxnType maps a buy to a debit; everything else is a credit.
func (r HoldingRow) TxnType() model.TxnType {
	if r.OrderType == OrderBuy {
		return model.TxnDebit
	}
	return model.TxnCredit
}

// Transaction normalizes the row under the holding name. Holdings are
// always Investment and skip the categorizer.
func (r HoldingRow) Transaction(name string, src model.Source) model.Transaction {
	return model.Transaction{
		Date:      r.Date,
		Amount:    r.Amount.Abs(),
		Narration: name,
		TxnType:   r.TxnType(),
		Category:  model.CategoryInvestment,
		Source:    src,
	}
}

// DecodeHoldingRow decodes one positional holding row. Order type, date and
// amount are required; price and units are informational and read as zero
// when they do not parse.
func DecodeHoldingRow(raw json.RawMessage) (HoldingRow, bool) {
	cells, ok := decodeCells(raw, holdingNumFields)
	if !ok {
		return HoldingRow{}, false
	}
	orderType, ok := decodeInt(cells[holdingColOrderType])
	if !ok {
		return HoldingRow{}, false
	}
	date, ok := decodeDate(cells[holdingColDate])
	if !ok {
		return HoldingRow{}, false
	}
	amount, ok := decodeDecimal(cells[holdingColAmount])
	if !ok {
		return HoldingRow{}, false
	}
	price, _ := decodeDecimal(cells[holdingColPrice])
	units, _ := decodeDecimal(cells[holdingColUnits])
	return HoldingRow{
		OrderType: orderType,
		Date:      date,
		Price:     price,
		Units:     units,
		Amount:    amount,
	}, true
}

func decodeCells(raw json.RawMessage, minFields int) ([]json.RawMessage, bool) {
	var cells []json.RawMessage
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, false
	}
	if len(cells) < minFields {
		return nil, false
	}
	return cells, true
}

// decodeDecimal accepts a JSON number or a string holding one.
func decodeDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	text, ok := scalarText(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// decodeInt accepts an integer-valued JSON number or a string holding an
// integer. Values outside the int range do not decode.
func decodeInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if isQuoted(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	n := d.IntPart()
	if !d.Equal(decimal.NewFromInt(n)) || int64(int(n)) != n {
		return 0, false
	}
	return int(n), true
}

// decodeString accepts a JSON string; null reads as empty.
func decodeString(raw json.RawMessage) (string, bool) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if s == nil {
		return "", true
	}
	return *s, true
}

func decodeDate(raw json.RawMessage) (civil.Date, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

// scalarText returns the text of a JSON number or string.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if isQuoted(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	if len(raw) == 0 || raw[0] == '[' || raw[0] == '{' {
		return "", false
	}
	return string(raw), true
}

func isQuoted(raw []byte) bool {
	return len(raw) > 0 && raw[0] == '"'
}
