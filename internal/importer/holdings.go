package importer

import "github.com/finsight-dev/finsight/internal/model"

// HoldingParser parses mutual fund or stock exports, depending on Src.
type HoldingParser struct {
	Src model.Source
}

// Source returns the configured source.
func (p *HoldingParser) Source() model.Source { return p.Src }

// Parse decodes and normalizes a holdings payload, tagged with Src.
func (p *HoldingParser) Parse(data []byte) Result {
	if p.Src == model.SourceStock {
		return parseHoldings(DecodeStockPayload(data), p.Src)
	}
	return parseHoldings(DecodeMFPayload(data), p.Src)
}

func parseHoldings(p HoldingsPayload, src model.Source) Result {
	var res Result
	for _, h := range p.Holdings {
		for _, raw := range h.Rows {
			row, ok := DecodeHoldingRow(raw)
			if !ok {
				res.Dropped++
				continue
			}
			res.Transactions = append(res.Transactions, row.Transaction(h.Name, src))
		}
	}
	return res
}
