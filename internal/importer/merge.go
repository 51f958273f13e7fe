package importer

import (
	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

// Merge concatenates bank, mutual fund and stock transactions in that
// order, each tagged with its source.
func Merge(c *categorize.Categorizer, bank BankPayload, mf, stock HoldingsPayload) Result {
	if c == nil {
		c = categorize.Default()
	}
	res := parseBank(bank, c, model.SourceBank)
	res.add(parseHoldings(mf, model.SourceMF))
	res.add(parseHoldings(stock, model.SourceStock))
	return res
}

// MergeAll merges the three sources with the default categorizer.
func MergeAll(bank BankPayload, mf, stock HoldingsPayload) []model.Transaction {
	return Merge(nil, bank, mf, stock).Transactions
}
