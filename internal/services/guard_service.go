// Package services – GuardService
//
// The transaction-rate guard keeps hyperactive wallets (exchanges, bots) out
// of the relay so one registration cannot flood every other user's webhook
// budget. The policy is deliberately fail-open: when history cannot be
// fetched or parsed the wallet is accepted with rate 0. Availability of
// registration wins over strict enforcement of this heuristic.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solxray/wallet-relay/internal/helius"
)

// TransactionHistory is the slice of the Helius client the guard needs.
type TransactionHistory interface {
	RawTransactions(ctx context.Context, wallet string) ([]helius.RawTransaction, error)
}

// GuardService computes an approximate daily transaction rate for a wallet
// from its most recent raw-history sample.
type GuardService struct {
	History       TransactionHistory
	MaxPerDay     float64 // acceptance threshold, tx/day
	MinSampleSize int     // below this many entries the wallet is low-activity

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// NewGuardService constructs a GuardService with the given thresholds.
func NewGuardService(h TransactionHistory, maxPerDay float64, minSample int) *GuardService {
	return &GuardService{
		History:       h,
		MaxPerDay:     maxPerDay,
		MinSampleSize: minSample,
		now:           time.Now,
	}
}

// Check reports whether wallet is acceptable and the computed rate in
// transactions per day. The rate extrapolates the observed sample: count
// divided by the span from the oldest sampled transaction to now. History
// arrives newest first, so the oldest entry is the last one.
//
// Fail-open cases, all accepted with rate 0: transport or decode failure,
// a sample smaller than MinSampleSize, and a zero observed span.
func (s *GuardService) Check(ctx context.Context, wallet string) (bool, float64) {
	txs, err := s.History.RawTransactions(ctx, wallet)
	if err != nil {
		log.Warn().Err(err).Str("wallet", wallet).Msg("rate guard failed open")
		return true, 0
	}
	if len(txs) < s.MinSampleSize {
		return true, 0
	}

	oldest := time.Unix(txs[len(txs)-1].BlockTime, 0)
	span := s.now().Sub(oldest).Seconds()
	if span <= 0 {
		return true, 0
	}

	rate := float64(len(txs)) / span * 86400
	return rate <= s.MaxPerDay, rate
}
