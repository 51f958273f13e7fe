package aggregate

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/model"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func debit(d civil.Date, amount, category string) model.Transaction {
	return model.Transaction{Date: d, Amount: dec(amount), TxnType: model.TxnDebit, Category: category}
}

func sample() []model.Transaction {
	return []model.Transaction{
		debit(date(2024, 5, 1), "499", model.CategoryEntertainment),
		{Date: date(2024, 5, 1), Amount: dec("50000"), TxnType: model.TxnCredit, Category: model.CategorySalary},
		debit(date(2024, 5, 5), "25000", model.CategoryRent),
		debit(date(2024, 6, 1), "499", model.CategoryEntertainment),
		debit(date(2024, 6, 10), "1200.50", model.CategoryFood),
		debit(date(2024, 6, 10), "300", model.CategoryFood),
		{Date: date(2024, 6, 20), Amount: dec("80"), Type: model.LegacyExpense, Category: ""},
		debit(date(2024, 7, 1), "499", model.CategoryEntertainment),
		{Amount: dec("999"), TxnType: model.TxnDebit, Category: model.CategoryShopping}, // no date
	}
}

func TestAggregate_Daily(t *testing.T) {
	got, err := Aggregate(sample(), "2024-05-01", "2024-06-30", Daily)
	require.NoError(t, err)

	require.Len(t, got, 5)
	assert.Equal(t, "2024-05-01", got[0].Key)
	assert.True(t, got[0].Amount.Equal(dec("499")), "credits excluded")
	assert.Equal(t, "2024-06-10", got[3].Key)
	assert.True(t, got[3].Amount.Equal(dec("1500.50")))
	assert.Equal(t, "2024-06-20", got[4].Key, "legacy expense included")
}

func TestAggregate_Monthly(t *testing.T) {
	got, err := Aggregate(sample(), "2024-01-01", "2024-12-31", Monthly)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"2024-05", "2024-06", "2024-07"}, keys(got))
	assert.True(t, got[0].Amount.Equal(dec("25499")))
	assert.True(t, got[1].Amount.Equal(dec("2079.50")))
	assert.True(t, got[2].Amount.Equal(dec("499")))
}

func TestAggregate_Category(t *testing.T) {
	got, err := Aggregate(sample(), "2024-01-01", "2024-12-31", ByCategory)
	require.NoError(t, err)

	assert.Equal(t, []string{model.CategoryRent, model.CategoryFood, model.CategoryEntertainment, model.CategoryOthers}, keys(got))
	assert.True(t, got[2].Amount.Equal(dec("1497")))
	assert.True(t, got[3].Amount.Equal(dec("80")), "missing category defaults to Others")
}

func TestAggregate_InclusiveBounds(t *testing.T) {
	got, err := Aggregate(sample(), "2024-06-01", "2024-06-01", Daily)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-06-01", got[0].Key)
}

func TestAggregate_SumConservation(t *testing.T) {
	txns := sample()
	w, err := ParseWindow("2024-05-01", "2024-06-30")
	require.NoError(t, err)

	want := decimal.Zero
	for _, txn := range txns {
		if txn.Date.IsValid() && w.Contains(txn.Date) && txn.IsSpend() {
			want = want.Add(txn.Amount)
		}
	}
	for _, dim := range []Dimension{Daily, Monthly, ByCategory} {
		got, err := Sum(txns, w, dim)
		require.NoError(t, err)
		assert.True(t, want.Equal(Total(got)), "%s total %s != %s", dim, Total(got), want)
	}
}

func TestAggregate_Ordering(t *testing.T) {
	txns := []model.Transaction{
		debit(date(2024, 3, 3), "5", "B"),
		debit(date(2024, 1, 9), "50", "A"),
		debit(date(2023, 12, 31), "5", "C"),
		debit(date(2024, 2, 1), "7", "B"),
	}
	daily, err := Aggregate(txns, "2023-01-01", "2024-12-31", Daily)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-12-31", "2024-01-09", "2024-02-01", "2024-03-03"}, keys(daily))

	monthly, err := Aggregate(txns, "2023-01-01", "2024-12-31", Monthly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02", "2024-03"}, keys(monthly))

	cats, err := Aggregate(txns, "2023-01-01", "2024-12-31", ByCategory)
	require.NoError(t, err)
	for i := 1; i < len(cats); i++ {
		assert.False(t, cats[i].Amount.GreaterThan(cats[i-1].Amount))
	}
}

func TestAggregate_CategoryTiesKeepFirstSeen(t *testing.T) {
	txns := []model.Transaction{
		debit(date(2024, 1, 1), "10", "Zeta"),
		debit(date(2024, 1, 2), "10", "Alpha"),
		debit(date(2024, 1, 3), "10", "Mid"),
	}
	got, err := Aggregate(txns, "2024-01-01", "2024-01-31", ByCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, keys(got))
}

func TestAggregate_InvertedWindow(t *testing.T) {
	for _, dim := range []Dimension{Daily, Monthly, ByCategory} {
		got, err := Aggregate(sample(), "2024-09-01", "2024-01-01", dim)
		require.NoError(t, err)
		assert.Empty(t, got, "dimension %s", dim)
	}
}

func TestAggregate_InvalidWindow(t *testing.T) {
	_, err := Aggregate(sample(), "2024/01/01", "2024-02-01", Daily)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Aggregate(sample(), "2024-01-01", "", Monthly)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Aggregate(sample(), "2024-02-30", "2024-03-01", ByCategory)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestAggregate_Empty(t *testing.T) {
	got, err := Aggregate(nil, "2024-01-01", "2024-12-31", ByCategory)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSum_UnknownDimension(t *testing.T) {
	_, err := Sum(sample(), Window{}, Dimension("weekly"))
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, Monthly, d)

	_, err = ParseDimension("weekly")
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestBucketJSON(t *testing.T) {
	tests := []struct {
		bucket Bucket
		want   string
	}{
		{Bucket{Key: "2024-05-01", Amount: dec("10.5"), Dimension: Daily}, `{"date":"2024-05-01","amount":10.5}`},
		{Bucket{Key: "2024-05", Amount: dec("3"), Dimension: Monthly}, `{"month":"2024-05","amount":3}`},
		{Bucket{Key: "Food", Amount: dec("7"), Dimension: ByCategory}, `{"category":"Food","amount":7}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.bucket)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(data))
	}
}

func TestBucketJSON_NegativeAndFractional(t *testing.T) {
	data, err := json.Marshal([]Bucket{
		{Key: "2024-05", Amount: dec("-0.05"), Dimension: Monthly},
		{Key: "2024-06", Amount: dec("1200.50"), Dimension: Monthly},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"month":"2024-05","amount":-0.05},{"month":"2024-06","amount":1200.5}]`, string(data))
}

func keys(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Key
	}
	return out
}
