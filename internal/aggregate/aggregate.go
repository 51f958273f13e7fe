// Package aggregate sums spend over date windows by day, month or category.
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

var (
	// ErrInvalidWindow is returned when a window bound is not a calendar date.
	ErrInvalidWindow = errors.New("invalid date window")
	// ErrUnknownDimension is returned for an unsupported grouping.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// Dimension selects the grouping key.
type Dimension string

const (
	Daily      Dimension = "daily"
	Monthly    Dimension = "monthly"
	ByCategory Dimension = "category"
)

// ParseDimension parses "daily", "monthly" or "category".
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Daily, Monthly, ByCategory:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// KeyField is the JSON field name of a bucket key for this dimension.
func (d Dimension) KeyField() string {
	switch d {
	case Daily:
		return "date"
	case Monthly:
		return "month"
	case ByCategory:
		return "category"
	}
	return "key"
}

// Bucket is one group's summed amount.
type Bucket struct {
	Key       string
	Amount    decimal.Decimal
	Dimension Dimension
}

// MarshalJSON writes {"<date|month|category>": key, "amount": amount}
// with amount as a JSON number.
func (b Bucket) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(b.Key)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, `{%q:%s,"amount":%s}`, b.Dimension.KeyField(), key, b.Amount.String()), nil
}

// Aggregate parses the window bounds and sums spend by dim. Bounds that
// are not YYYY-MM-DD return ErrInvalidWindow; an inverted window returns
// no buckets.
func Aggregate(txns []model.Transaction, from, to string, dim Dimension) ([]Bucket, error) {
	w, err := ParseWindow(from, to)
	if err != nil {
		return nil, err
	}
	return Sum(txns, w, dim)
}

// Sum groups spend transactions inside w by dim.
func Sum(txns []model.Transaction, w Window, dim Dimension) ([]Bucket, error) {
	switch dim {
	case Daily:
		return DailySpend(txns, w), nil
	case Monthly:
		return MonthlySpend(txns, w), nil
	case ByCategory:
		return CategoryBreakdown(txns, w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
}

// DailySpend sums spend per day, oldest first.
func DailySpend(txns []model.Transaction, w Window) []Bucket {
	buckets := group(txns, w, Daily, func(t model.Transaction) string {
		return t.Date.String()
	})
	sortByKey(buckets)
	return buckets
}

// MonthlySpend sums spend per calendar month (YYYY-MM), oldest first.
func MonthlySpend(txns []model.Transaction, w Window) []Bucket {
	buckets := group(txns, w, Monthly, func(t model.Transaction) string {
		return MonthKey(t.Date)
	})
	sortByKey(buckets)
	return buckets
}

// CategoryBreakdown sums spend per category, largest first. Equal sums
// keep first-seen order.
func CategoryBreakdown(txns []model.Transaction, w Window) []Bucket {
	buckets := group(txns, w, ByCategory, model.Transaction.CategoryOrDefault)
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Amount.GreaterThan(buckets[j].Amount)
	})
	return buckets
}

// Total sums the amounts of buckets.
func Total(buckets []Bucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Amount)
	}
	return total
}

// MonthKey formats a date as YYYY-MM.
func MonthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// group sums qualifying transactions by key, in first-seen order.
// Transactions with invalid dates are skipped.
func group(txns []model.Transaction, w Window, dim Dimension, keyOf func(model.Transaction) string) []Bucket {
	if w.Inverted() {
		return nil
	}
	index := make(map[string]int)
	var buckets []Bucket
	for _, t := range txns {
		if !t.Date.IsValid() || !w.Contains(t.Date) || !t.IsSpend() {
			continue
		}
		key := keyOf(t)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Amount: decimal.Zero, Dimension: dim})
		}
		buckets[i].Amount = buckets[i].Amount.Add(t.Amount)
	}
	return buckets
}

func sortByKey(buckets []Bucket) {
	slices.SortFunc(buckets, func(a, b Bucket) int {
		return strings.Compare(a.Key, b.Key)
	})
}
