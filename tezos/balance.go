package tezos

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/tez-wallet/internal/common"
	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BalanceSource returns the balance of an account in mutez
type BalanceSource interface {
	Balance(ctx context.Context, pkh string) (string, error)
}

// RateSource returns the fiat price of one tez
type RateSource interface {
	GetTezosRate(ctx context.Context, currency string) (string, error)
}

// GetBalance gets the balance of address with its fiat value.
// Node balance and rate are fetched concurrently; a rate failure only drops the fiat fields.
func GetBalance(ctx context.Context, node BalanceSource, rates RateSource, address, currency string, logger *zap.Logger) (*model.TezosBalanceResponse, error) {
	if err := keys.ValidateAddress(address); err != nil {
		return nil, err
	}

	var mutez, rate string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mutez, err = node.Balance(gctx, address)
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		r, err := rates.GetTezosRate(gctx, currency)
		if err != nil {
			logger.Sugar().Warnw("Failed to get fiat rate", "currency", currency, "error", err)
			return nil
		}
		rate = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	amount, err := common.ParseMutez(mutez)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", mutez, err)
	}
	tez := common.MutezToTez(amount)

	resp := &model.TezosBalanceResponse{
		Address:  address,
		Mutez:    mutez,
		Tez:      tez,
		Currency: currency,
	}
	if rate != "" {
		resp.Rate = rate
		resp.Fiat = fiatValue(tez, rate)
	}
	return resp, nil
}

// fiatValue multiplies with big.Float, used only for display
func fiatValue(tez, rate string) string {
	t, ok := new(big.Float).SetString(tez)
	if !ok {
		return ""
	}
	r, ok := new(big.Float).SetString(rate)
	if !ok {
		return ""
	}
	return new(big.Float).Mul(t, r).Text('f', 2)
}
