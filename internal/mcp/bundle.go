package mcp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/model"
)

// Bundle holds the three raw payloads of one session. Missing payloads are nil.
type Bundle struct {
	Bank  []byte
	MF    []byte
	Stock []byte
}

// FetchAll fetches the three payloads concurrently. The first error cancels
// the remaining fetches.
func FetchAll(ctx context.Context, f Fetcher, session string) (Bundle, error) {
	var b Bundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Bank, err = f.BankTransactions(ctx, session)
		return err
	})
	g.Go(func() (err error) {
		b.MF, err = f.MFTransactions(ctx, session)
		return err
	})
	g.Go(func() (err error) {
		b.Stock, err = f.StockTransactions(ctx, session)
		return err
	})
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// BankPayload decodes the bank payload.
func (b Bundle) BankPayload() importer.BankPayload {
	return importer.DecodeBankPayload(b.Bank)
}

// MFPayload decodes the mutual fund payload.
func (b Bundle) MFPayload() importer.HoldingsPayload {
	return importer.DecodeMFPayload(b.MF)
}

// StockPayload decodes the stock payload.
func (b Bundle) StockPayload() importer.HoldingsPayload {
	return importer.DecodeStockPayload(b.Stock)
}

// Raw returns the payload for src, or nil for an unknown source.
func (b Bundle) Raw(src model.Source) []byte {
	switch src {
	case model.SourceBank:
		return b.Bank
	case model.SourceMF:
		return b.MF
	case model.SourceStock:
		return b.Stock
	}
	return nil
}
