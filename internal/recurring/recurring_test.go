package recurring

import (
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/model"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func debit(narration, amount string, d civil.Date) model.Transaction {
	return model.Transaction{
		Date:      d,
		Amount:    decimal.RequireFromString(amount),
		Narration: narration,
		TxnType:   model.TxnDebit,
	}
}

func detect(txns []model.Transaction, now civil.Date) []model.PaymentNudge {
	return NewDetector(DefaultOptions(), nil).Detect(txns, now)
}

func TestDetect_MonthlyNetflix(t *testing.T) {
	txns := []model.Transaction{
		debit("Netflix", "499", date(2024, 5, 1)),
		debit("Netflix", "499", date(2024, 6, 1)),
		debit("Netflix", "499", date(2024, 7, 1)),
	}
	nudges := detect(txns, date(2024, 7, 20))

	require.Len(t, nudges, 1)
	n := nudges[0]
	assert.Equal(t, "Netflix", n.Merchant)
	assert.Equal(t, model.CategoryEntertainment, n.Category)
	assert.True(t, n.Amount.Equal(decimal.NewFromInt(499)))
	assert.Equal(t, "2024-07-31", n.DueDate.String())
	assert.Equal(t, 11, n.DaysAway)
	assert.Equal(t, model.NudgeRecurringPayment, n.Type)
}

func TestDetectNudges_FromPayload(t *testing.T) {
	data, err := os.ReadFile("../../testdata/1010101010/fetch_bank_transactions.json")
	require.NoError(t, err)

	now := time.Date(2024, 7, 20, 18, 30, 0, 0, time.UTC)
	nudges := DetectNudges(importer.DecodeBankPayload(data), now)

	require.Len(t, nudges, 1)
	assert.Equal(t, "Netflix", nudges[0].Merchant)
	assert.Equal(t, "2024-07-31", nudges[0].DueDate.String())
	assert.Equal(t, 11, nudges[0].DaysAway)
}

func TestDetect_UnsortedInput(t *testing.T) {
	txns := []model.Transaction{
		debit("Spotify", "119", date(2024, 7, 3)),
		debit("Spotify", "119", date(2024, 5, 3)),
		debit("Spotify", "119", date(2024, 6, 3)),
	}
	nudges := detect(txns, date(2024, 7, 10))
	require.Len(t, nudges, 1)
	assert.Equal(t, "2024-08-02", nudges[0].DueDate.String())
	assert.Equal(t, 23, nudges[0].DaysAway)
}

func TestDetect_SingleOccurrence(t *testing.T) {
	nudges := detect([]model.Transaction{debit("Gym", "1500", date(2024, 7, 1))}, date(2024, 7, 10))
	assert.Empty(t, nudges)
}

func TestDetect_GapOutsideBand(t *testing.T) {
	weekly := []model.Transaction{
		debit("Milk", "60", date(2024, 7, 1)),
		debit("Milk", "60", date(2024, 7, 8)),
		debit("Milk", "60", date(2024, 7, 15)),
	}
	assert.Empty(t, detect(weekly, date(2024, 7, 16)))

	bimonthly := []model.Transaction{
		debit("Insurance", "900", date(2024, 5, 1)),
		debit("Insurance", "900", date(2024, 7, 1)),
	}
	assert.Empty(t, detect(bimonthly, date(2024, 7, 2)))
}

func TestDetect_BandIsInclusive(t *testing.T) {
	low := []model.Transaction{
		debit("A", "1", date(2024, 6, 1)),
		debit("A", "1", date(2024, 6, 26)), // 25 days
	}
	assert.Len(t, detect(low, date(2024, 6, 27)), 1)

	high := []model.Transaction{
		debit("B", "1", date(2024, 5, 1)),
		debit("B", "1", date(2024, 6, 5)), // 35 days
	}
	assert.Len(t, detect(high, date(2024, 6, 6)), 1)

	tooHigh := []model.Transaction{
		debit("C", "1", date(2024, 5, 1)),
		debit("C", "1", date(2024, 6, 6)), // 36 days
	}
	assert.Empty(t, detect(tooHigh, date(2024, 6, 7)))
}

func TestDetect_DueDateNotInFuture(t *testing.T) {
	txns := []model.Transaction{
		debit("Rent", "20000", date(2024, 5, 1)),
		debit("Rent", "20000", date(2024, 6, 1)),
	}
	// 2024-06-01 + 30 = 2024-07-01, which is not after now.
	assert.Empty(t, detect(txns, date(2024, 7, 1)))
	assert.Len(t, detect(txns, date(2024, 6, 30)), 1)
}

func TestDetect_Lookback(t *testing.T) {
	txns := []model.Transaction{
		debit("Netflix", "499", date(2024, 4, 1)),
		debit("Netflix", "499", date(2024, 5, 1)),
	}
	// 2024-07-31 - 90 days = 2024-05-02: only one occurrence remains.
	assert.Empty(t, detect(txns, date(2024, 7, 31)))
	// 2024-05-30 - 90 days = 2024-03-01: both are in range, inclusive.
	assert.Len(t, detect(txns, date(2024, 5, 30)), 1)
}

func TestDetect_IgnoresFutureAndCredits(t *testing.T) {
	credit := debit("Salary", "50000", date(2024, 6, 1))
	credit.TxnType = model.TxnCredit
	credit2 := debit("Salary", "50000", date(2024, 7, 1))
	credit2.TxnType = model.TxnCredit

	txns := []model.Transaction{
		credit, credit2,
		debit("Netflix", "499", date(2024, 7, 1)),
		debit("Netflix", "499", date(2024, 8, 1)), // after now
	}
	assert.Empty(t, detect(txns, date(2024, 7, 20)))
}

func TestDetect_GroupsByNarrationAndAmount(t *testing.T) {
	txns := []model.Transaction{
		debit("Netflix", "499", date(2024, 5, 1)),
		debit("Netflix", "649", date(2024, 6, 1)),
		debit("netflix", "499", date(2024, 6, 1)),
		debit("Netflix", "499.00", date(2024, 6, 1)),
	}
	nudges := detect(txns, date(2024, 6, 15))
	require.Len(t, nudges, 1, "499 and 499.00 are the same amount")
	assert.Equal(t, "Netflix", nudges[0].Merchant)
}

func TestDetect_SortedByDueDate(t *testing.T) {
	txns := []model.Transaction{
		debit("Zomato Gold", "150", date(2024, 5, 20)),
		debit("Zomato Gold", "150", date(2024, 6, 20)),
		debit("Airtel internet", "999", date(2024, 5, 5)),
		debit("Airtel internet", "999", date(2024, 6, 5)),
		debit("Amazon Prime", "299", date(2024, 5, 5)),
		debit("Amazon Prime", "299", date(2024, 6, 5)),
	}
	nudges := detect(txns, date(2024, 6, 25))
	require.Len(t, nudges, 3)

	assert.Equal(t, "Airtel internet", nudges[0].Merchant)
	assert.Equal(t, model.CategoryBills, nudges[0].Category)
	assert.Equal(t, "Amazon Prime", nudges[1].Merchant)
	assert.Equal(t, model.CategoryShopping, nudges[1].Category)
	assert.Equal(t, "Zomato Gold", nudges[2].Merchant)
	assert.Equal(t, "2024-07-20", nudges[2].DueDate.String())
}

func TestDetect_CustomOptions(t *testing.T) {
	opts := Options{LookbackDays: 30, MinGapDays: 6, MaxGapDays: 8, HorizonDays: 7}
	txns := []model.Transaction{
		debit("Milk", "60", date(2024, 7, 1)),
		debit("Milk", "60", date(2024, 7, 8)),
		debit("Milk", "60", date(2024, 7, 15)),
	}
	nudges := NewDetector(opts, nil).Detect(txns, date(2024, 7, 16))
	require.Len(t, nudges, 1)
	assert.Equal(t, "2024-07-22", nudges[0].DueDate.String())
	assert.Equal(t, 6, nudges[0].DaysAway)
}

func TestDetect_Empty(t *testing.T) {
	assert.Empty(t, detect(nil, date(2024, 7, 20)))
	assert.Empty(t, DetectNudges(importer.BankPayload{}, time.Now()))
}
