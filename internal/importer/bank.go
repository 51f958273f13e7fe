package importer

import (
	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/model"
)

// BankParser parses bank exports. A nil Categorizer uses the default rules.
type BankParser struct {
	Categorizer *categorize.Categorizer
}

// Source returns model.SourceBank.
func (p *BankParser) Source() model.Source { return model.SourceBank }

// Parse decodes and normalizes a bank payload. Transactions are not
// source-tagged.
func (p *BankParser) Parse(data []byte) Result {
	return parseBank(DecodeBankPayload(data), p.categorizer(), "")
}

func (p *BankParser) categorizer() *categorize.Categorizer {
	if p.Categorizer == nil {
		return categorize.Default()
	}
	return p.Categorizer
}

// ParseBankTransactions flattens every account's rows, in order, into
// Transactions. Malformed rows are dropped.
func ParseBankTransactions(p BankPayload) []model.Transaction {
	return parseBank(p, categorize.Default(), "").Transactions
}

func parseBank(p BankPayload, c *categorize.Categorizer, src model.Source) Result {
	var res Result
	for _, acct := range p.Accounts {
		for _, raw := range acct.Rows {
			row, ok := DecodeBankRow(raw)
			if !ok {
				res.Dropped++
				continue
			}
			txn := row.Transaction(c)
			txn.Source = src
			res.Transactions = append(res.Transactions, txn)
		}
	}
	return res
}
