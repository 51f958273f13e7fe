// Package recurring predicts upcoming payments from repeated bank debits.
package recurring

import (
	"cmp"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/model"
)

// Options tunes the monthly-recurrence heuristic.
type Options struct {
	LookbackDays int // debits older than now minus this are ignored
	MinGapDays   int // mean gap lower bound, inclusive
	MaxGapDays   int // mean gap upper bound, inclusive
	HorizonDays  int // next due date is the last occurrence plus this
}

// DefaultOptions returns a 90-day look-back and a 25..35 day monthly band,
// predicting 30 days after the last payment.
func DefaultOptions() Options {
	return Options{
		LookbackDays: 90,
		MinGapDays:   25,
		MaxGapDays:   35,
		HorizonDays:  30,
	}
}

// Detector finds recurring debits and emits payment nudges.
type Detector struct {
	opts        Options
	categorizer *categorize.Categorizer
}

// NewDetector creates a Detector. A nil categorizer uses the default rules.
func NewDetector(opts Options, c *categorize.Categorizer) *Detector {
	if c == nil {
		c = categorize.Default()
	}
	return &Detector{opts: opts, categorizer: c}
}

// DetectNudges parses a bank payload and detects nudges with default
// options, as of the calendar date of now.
func DetectNudges(bank importer.BankPayload, now time.Time) []model.PaymentNudge {
	return NewDetector(DefaultOptions(), nil).Detect(importer.ParseBankTransactions(bank), civil.DateOf(now))
}

// candidate collects occurrence dates of one (narration, amount) pair.
type candidate struct {
	narration string
	amount    decimal.Decimal
	dates     []civil.Date
}

// Detect groups debits in the look-back window ending at now by exact
// narration and amount. A group with two or more occurrences whose mean
// gap is within the monthly band yields a nudge when its predicted due
// date is after now. Nudges are sorted by due date, merchant, amount.
func (d *Detector) Detect(txns []model.Transaction, now civil.Date) []model.PaymentNudge {
	start := now.AddDays(-d.opts.LookbackDays)

	index := make(map[string]int)
	var candidates []*candidate
	for _, t := range txns {
		if t.TxnType != model.TxnDebit || !t.Date.IsValid() {
			continue
		}
		if t.Date.Before(start) || t.Date.After(now) {
			continue
		}
		key := t.Narration + "\x00" + t.Amount.String()
		i, ok := index[key]
		if !ok {
			i = len(candidates)
			index[key] = i
			candidates = append(candidates, &candidate{narration: t.Narration, amount: t.Amount})
		}
		candidates[i].dates = append(candidates[i].dates, t.Date)
	}

	var nudges []model.PaymentNudge
	for _, c := range candidates {
		due, ok := d.predict(c.dates)
		if !ok || !due.After(now) {
			continue
		}
		nudges = append(nudges, model.PaymentNudge{
			Category: d.categorizer.Categorize(c.narration),
			Merchant: c.narration,
			Amount:   c.amount,
			DueDate:  due,
			DaysAway: due.DaysSince(now),
			Type:     model.NudgeRecurringPayment,
		})
	}

	slices.SortFunc(nudges, func(a, b model.PaymentNudge) int {
		if a.DueDate != b.DueDate {
			if a.DueDate.Before(b.DueDate) {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Merchant, b.Merchant); c != 0 {
			return c
		}
		return a.Amount.Cmp(b.Amount)
	})
	return nudges
}

// predict returns the next due date when the mean gap between sorted
// occurrences falls in the monthly band.
// TODO: predict with the observed mean gap instead of the fixed horizon once
// product confirms the intended formula.
func (d *Detector) predict(dates []civil.Date) (civil.Date, bool) {
	if len(dates) < 2 {
		return civil.Date{}, false
	}
	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, func(a, b civil.Date) int {
		return a.DaysSince(b)
	})

	gaps := len(sorted) - 1
	total := sorted[gaps].DaysSince(sorted[0])
	// mean = total/gaps; compare without division.
	if total < d.opts.MinGapDays*gaps || total > d.opts.MaxGapDays*gaps {
		return civil.Date{}, false
	}
	return sorted[gaps].AddDays(d.opts.HorizonDays), true
}
