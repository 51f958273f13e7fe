// Package whatif runs simple financial projections.
package whatif

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// ErrUnknownScenario is returned for an unsupported scenario name.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario names.
const (
	ScenarioMFReturn       = "mf_return"
	ScenarioSpendReduction = "spend_reduction"
)

var hundred = decimal.NewFromInt(100)

// MFReturnParams configures a lump-sum mutual fund projection.
type MFReturnParams struct {
	Amount        decimal.Decimal
	HorizonMonths int
	AnnualRate    decimal.Decimal // 0.12 for 12%
}

// DefaultMFReturnParams returns 1,00,000 over 60 months at 12% a year.
func DefaultMFReturnParams() MFReturnParams {
	return MFReturnParams{
		Amount:        decimal.NewFromInt(100000),
		HorizonMonths: 60,
		AnnualRate:    decimal.RequireFromString("0.12"),
	}
}

// MFReturnResult is the outcome of an MF projection.
type MFReturnResult struct {
	Scenario          string          `json:"scenario"`
	Investment        decimal.Decimal `json:"investment"`
	HorizonMonths     int             `json:"horizon_months"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	FutureValue       decimal.Decimal `json:"future_value"`
	TotalGrowth       decimal.Decimal `json:"total_growth"`
}

// MarshalJSON writes the amounts as JSON numbers.
func (r MFReturnResult) MarshalJSON() ([]byte, error) {
	type plain MFReturnResult
	return json.Marshal(struct {
		plain
		Investment        json.Number `json:"investment"`
		AnnualRatePercent json.Number `json:"annual_rate_percent"`
		FutureValue       json.Number `json:"future_value"`
		TotalGrowth       json.Number `json:"total_growth"`
	}{
		plain(r),
		model.Number(r.Investment),
		model.Number(r.AnnualRatePercent),
		model.Number(r.FutureValue),
		model.Number(r.TotalGrowth),
	})
}

// MFReturn compounds Amount monthly at the monthly equivalent of AnnualRate.
func MFReturn(p MFReturnParams) (MFReturnResult, error) {
	if p.HorizonMonths < 0 {
		return MFReturnResult{}, fmt.Errorf("horizon months must not be negative, got %d", p.HorizonMonths)
	}
	if p.AnnualRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return MFReturnResult{}, fmt.Errorf("annual rate must be greater than -1, got %s", p.AnnualRate)
	}
	annual := p.AnnualRate.InexactFloat64()
	monthly := math.Pow(1+annual, 1.0/12) - 1
	growth := math.Pow(1+monthly, float64(p.HorizonMonths))

	future := p.Amount.Mul(decimal.NewFromFloat(growth)).Round(2)
	return MFReturnResult{
		Scenario:          "Mutual Fund Returns",
		Investment:        p.Amount,
		HorizonMonths:     p.HorizonMonths,
		AnnualRatePercent: p.AnnualRate.Mul(hundred),
		FutureValue:       future,
		TotalGrowth:       future.Sub(p.Amount).Round(2),
	}, nil
}

// SpendReductionParams configures a spend-cut projection.
type SpendReductionParams struct {
	Percent         decimal.Decimal
	AvgMonthlySpend decimal.Decimal
}

// DefaultSpendReductionParams returns a 10% cut on 50,000 a month.
func DefaultSpendReductionParams() SpendReductionParams {
	return SpendReductionParams{
		Percent:         decimal.NewFromInt(10),
		AvgMonthlySpend: decimal.NewFromInt(50000),
	}
}

// SpendReductionResult is the outcome of a spend-cut projection.
type SpendReductionResult struct {
	Scenario         string          `json:"scenario"`
	ReductionPercent decimal.Decimal `json:"reduction_percent"`
	AvgMonthlySpend  decimal.Decimal `json:"avg_monthly_spend"`
	MonthlySavings   decimal.Decimal `json:"monthly_savings"`
	AnnualSavings    decimal.Decimal `json:"annual_savings"`
}

// MarshalJSON writes the amounts as JSON numbers.
func (r SpendReductionResult) MarshalJSON() ([]byte, error) {
	type plain SpendReductionResult
	return json.Marshal(struct {
		plain
		ReductionPercent json.Number `json:"reduction_percent"`
		AvgMonthlySpend  json.Number `json:"avg_monthly_spend"`
		MonthlySavings   json.Number `json:"monthly_savings"`
		AnnualSavings    json.Number `json:"annual_savings"`
	}{
		plain(r),
		model.Number(r.ReductionPercent),
		model.Number(r.AvgMonthlySpend),
		model.Number(r.MonthlySavings),
		model.Number(r.AnnualSavings),
	})
}

// SpendReduction computes monthly and annual savings from cutting spend by Percent.
func SpendReduction(p SpendReductionParams) SpendReductionResult {
	monthly := p.AvgMonthlySpend.Mul(p.Percent).Div(hundred)
	return SpendReductionResult{
		Scenario:         "Spending Reduction",
		ReductionPercent: p.Percent,
		AvgMonthlySpend:  p.AvgMonthlySpend,
		MonthlySavings:   monthly.Round(2),
		AnnualSavings:    monthly.Mul(decimal.NewFromInt(12)).Round(2),
	}
}

// Run dispatches by scenario name. Nil params use the defaults.
func Run(scenario string, mf *MFReturnParams, spend *SpendReductionParams) (any, error) {
	switch scenario {
	case ScenarioMFReturn:
		p := DefaultMFReturnParams()
		if mf != nil {
			p = *mf
		}
		return MFReturn(p)
	case ScenarioSpendReduction:
		p := DefaultSpendReductionParams()
		if spend != nil {
			p = *spend
		}
		return SpendReduction(p), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
}
