// Package chart shapes spend aggregates into Google Charts payloads.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/model"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no data to chart")

// Chart types understood by the frontend renderer.
const (
	TypeLine = "LineChart"
	TypePie  = "PieChart"
)

// Payload is a chart in Google Charts array form: a header row followed
// by [label, value] rows.
type Payload struct {
	ChartType string         `json:"chartType"`
	Data      [][]any        `json:"data"`
	Options   map[string]any `json:"options"`
}

// MarshalJSON writes decimal cells as JSON numbers.
func (p Payload) MarshalJSON() ([]byte, error) {
	data := make([][]any, len(p.Data))
	for i, row := range p.Data {
		data[i] = make([]any, len(row))
		for j, cell := range row {
			if d, ok := cell.(decimal.Decimal); ok {
				cell = model.Number(d)
			}
			data[i][j] = cell
		}
	}
	type plain Payload
	out := plain(p)
	out.Data = data
	return json.Marshal(out)
}

// Rows returns the data rows without the header.
func (p Payload) Rows() [][]any {
	if len(p.Data) == 0 {
		return nil
	}
	return p.Data[1:]
}

const monthLabelLayout = "Jan 2006"

// SpendingTrend charts monthly spend inside w as a line.
func SpendingTrend(txns []model.Transaction, w aggregate.Window) (Payload, error) {
	if len(txns) == 0 {
		return Payload{}, ErrNoData
	}
	data := [][]any{{"Month", "Spending"}}
	for _, b := range aggregate.MonthlySpend(txns, w) {
		data = append(data, []any{monthLabel(b.Key), b.Amount})
	}
	return Payload{
		ChartType: TypeLine,
		Data:      data,
		Options: map[string]any{
			"title":  "Monthly Spending Trend",
			"hAxis":  map[string]any{"title": "Month"},
			"vAxis":  map[string]any{"title": "Amount (₹)"},
			"legend": map[string]any{"position": "bottom"},
		},
	}, nil
}

// CategoryBreakdown charts spend by category inside w as a pie, largest first.
func CategoryBreakdown(txns []model.Transaction, w aggregate.Window, period aggregate.Period) (Payload, error) {
	if len(txns) == 0 {
		return Payload{}, ErrNoData
	}
	data := [][]any{{"Category", "Amount"}}
	for _, b := range aggregate.CategoryBreakdown(txns, w) {
		data = append(data, []any{b.Key, b.Amount})
	}
	return Payload{
		ChartType: TypePie,
		Data:      data,
		Options: map[string]any{
			"title": fmt.Sprintf("Spending by Category (%s)", period.Title()),
			"is3D":  true,
		},
	}, nil
}

// Asset class labels on the portfolio chart.
const (
	AssetMutualFunds = "Mutual Funds"
	AssetStocks      = "Stocks"
)

// InvestmentPortfolio charts net invested amount per asset class. Each
// holding contributes buys minus sells; holdings that net to zero or
// less are left out.
func InvestmentPortfolio(mf, stock importer.HoldingsPayload) (Payload, error) {
	data := [][]any{{"Asset Class", "Value"}}
	for _, class := range []struct {
		label   string
		payload importer.HoldingsPayload
	}{
		{AssetMutualFunds, mf},
		{AssetStocks, stock},
	} {
		total := netInvested(class.payload)
		if total.IsPositive() {
			data = append(data, []any{class.label, total})
		}
	}
	if len(data) == 1 {
		return Payload{}, ErrNoData
	}
	return Payload{
		ChartType: TypePie,
		Data:      data,
		Options: map[string]any{
			"title":   "Investment Portfolio Allocation",
			"pieHole": 0.4,
		},
	}, nil
}

func netInvested(p importer.HoldingsPayload) decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		held := decimal.Zero
		for _, raw := range h.Rows {
			row, ok := importer.DecodeHoldingRow(raw)
			if !ok {
				continue
			}
			switch row.OrderType {
			case importer.OrderBuy:
				held = held.Add(row.Amount)
			case importer.OrderSell:
				held = held.Sub(row.Amount)
			}
		}
		if held.IsPositive() {
			total = total.Add(held)
		}
	}
	return total
}

// monthLabel renders "2024-05" as "May 2024".
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format(monthLabelLayout)
}
