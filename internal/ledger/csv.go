// Package ledger reads and writes normalized transactions as CSV.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// Header is the CSV header for a transactions ledger.
const Header = "date,amount,narration,txn_type,category,source,type"

const (
	numFields    = 7
	colDate      = 0
	colAmount    = 1
	colNarration = 2
	colTxnType   = 3
	colCategory  = 4
	colSource    = 5
	colType      = 6
)

// errMalformedRow marks a row that is skipped on read.
var errMalformedRow = errors.New("malformed row")

// ReadTransactions reads a ledger. Rows whose amount does not parse are
// skipped. Rows whose date does not parse are kept with an invalid date
// so aggregation can skip them.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for _, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if errors.Is(err, errMalformedRow) {
			continue
		}
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes a ledger including the header.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	if txn.Date.IsValid() {
		row[colDate] = txn.Date.String()
	}
	row[colAmount] = txn.Amount.String()
	row[colNarration] = txn.Narration
	row[colTxnType] = string(txn.TxnType)
	row[colCategory] = txn.Category
	row[colSource] = string(txn.Source)
	row[colType] = txn.Type
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: amount %q", errMalformedRow, record[colAmount])
	}

	// An unparseable date leaves the zero Date, which is not valid.
	date, _ := civil.ParseDate(strings.TrimSpace(record[colDate]))

	return model.Transaction{
		Date:      date,
		Amount:    amount.Abs(),
		Narration: record[colNarration],
		TxnType:   model.TxnType(strings.ToUpper(strings.TrimSpace(record[colTxnType]))),
		Category:  record[colCategory],
		Source:    model.Source(record[colSource]),
		Type:      strings.TrimSpace(record[colType]),
	}, nil
}
