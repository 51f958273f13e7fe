package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/finsight-dev/finsight/internal/model"
)

// ErrUnknownPeriod is returned for an unsupported named period.
var ErrUnknownPeriod = errors.New("unknown period")

// Window is an inclusive date range.
type Window struct {
	From civil.Date
	To   civil.Date
}

// ParseWindow parses YYYY-MM-DD bounds.
func ParseWindow(from, to string) (Window, error) {
	f, err := civil.ParseDate(strings.TrimSpace(from))
	if err != nil {
		return Window{}, fmt.Errorf("%w: from %q: %w", ErrInvalidWindow, from, err)
	}
	t, err := civil.ParseDate(strings.TrimSpace(to))
	if err != nil {
		return Window{}, fmt.Errorf("%w: to %q: %w", ErrInvalidWindow, to, err)
	}
	return Window{From: f, To: t}, nil
}

// Contains reports whether d lies in [From, To].
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Inverted reports whether From is after To.
func (w Window) Inverted() bool {
	return w.From.After(w.To)
}

// Days returns the window ending at end and spanning days before it.
func Days(end civil.Date, days int) Window {
	return Window{From: end.AddDays(-days), To: end}
}

func (w Window) String() string {
	return w.From.String() + ".." + w.To.String()
}

// Period is a named look-back window.
type Period string

const (
	LastMonth   Period = "last_month"
	Last3Months Period = "last_3_months"
	Last6Months Period = "last_6_months"
	LastYear    Period = "last_year"
)

var periodDays = map[Period]int{
	LastMonth:   30,
	Last3Months: 90,
	Last6Months: 180,
	LastYear:    365,
}

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Days is the look-back length, or 0 for an unknown period.
func (p Period) Days() int {
	return periodDays[p]
}

// Title renders "last_3_months" as "Last 3 Months".
func (p Period) Title() string {
	words := strings.Split(string(p), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Window returns the period ending at ref.
func (p Period) Window(ref civil.Date) (Window, error) {
	days, ok := periodDays[p]
	if !ok {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}
	return Days(ref, days), nil
}

// Reference picks the as-of date for period windows.
type Reference struct {
	// Date, when valid, is always used.
	Date civil.Date
	// Fallback is used when no transaction falls in the span ending today,
	// e.g. for sample data that has gone stale.
	Fallback civil.Date
}

// Resolve returns the as-of date for a window of span days.
func (r Reference) Resolve(today civil.Date, txns []model.Transaction, span int) civil.Date {
	if r.Date.IsValid() {
		return r.Date
	}
	recent := Days(today, span)
	for _, t := range txns {
		if t.Date.IsValid() && recent.Contains(t.Date) {
			return today
		}
	}
	if r.Fallback.IsValid() {
		return r.Fallback
	}
	return today
}
