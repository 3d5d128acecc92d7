package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/solxray/wallet-relay/internal/helius"
)

type fakeHistory struct {
	txs []helius.RawTransaction
	err error
}

func (f *fakeHistory) RawTransactions(ctx context.Context, wallet string) ([]helius.RawTransaction, error) {
	return f.txs, f.err
}

// historySample builds n entries newest-first whose oldest entry sits span
// before the fixed reference time.
func historySample(ref time.Time, n int, span time.Duration) []helius.RawTransaction {
	txs := make([]helius.RawTransaction, n)
	step := span / time.Duration(n-1)
	for i := range txs {
		txs[i] = helius.RawTransaction{
			Signature: "sig",
			BlockTime: ref.Add(-time.Duration(i) * step).Unix(),
		}
	}
	return txs
}

func newTestGuard(h TransactionHistory, ref time.Time) *GuardService {
	g := NewGuardService(h, 50, 10)
	g.now = func() time.Time { return ref }
	return g
}

func TestGuardCheck_TransportFailureFailsOpen(t *testing.T) {
	g := newTestGuard(&fakeHistory{err: errors.New("boom")}, time.Now())

	ok, rate := g.Check(context.Background(), "w")
	if !ok || rate != 0 {
		t.Fatalf("Check() = (%v, %v), want fail-open (true, 0)", ok, rate)
	}
}

func TestGuardCheck_SmallSampleAccepted(t *testing.T) {
	ref := time.Unix(1700000000, 0)
	// 9 entries in one hour would extrapolate far past the threshold, but
	// the sample is below MinSampleSize so no rate is computed at all.
	g := newTestGuard(&fakeHistory{txs: historySample(ref, 9, time.Hour)}, ref)

	ok, rate := g.Check(context.Background(), "w")
	if !ok || rate != 0 {
		t.Fatalf("Check() = (%v, %v), want (true, 0)", ok, rate)
	}
}

func TestGuardCheck_HyperactiveWalletRejected(t *testing.T) {
	ref := time.Unix(1700000000, 0)
	// Ten transactions in the last hour extrapolates to 240/day.
	g := newTestGuard(&fakeHistory{txs: historySample(ref, 10, time.Hour)}, ref)

	ok, rate := g.Check(context.Background(), "w")
	if ok {
		t.Fatalf("Check() accepted a wallet at %v tx/day", rate)
	}
	if math.Abs(rate-240) > 1e-6 {
		t.Fatalf("rate = %v, want 240", rate)
	}
}

func TestGuardCheck_QuietWalletAccepted(t *testing.T) {
	ref := time.Unix(1700000000, 0)
	// Ten transactions over five days is 2/day.
	g := newTestGuard(&fakeHistory{txs: historySample(ref, 10, 5*24*time.Hour)}, ref)

	ok, rate := g.Check(context.Background(), "w")
	if !ok {
		t.Fatalf("Check() rejected a wallet at %v tx/day", rate)
	}
	if math.Abs(rate-2) > 1e-6 {
		t.Fatalf("rate = %v, want 2", rate)
	}
}

func TestGuardCheck_ZeroSpanFailsOpen(t *testing.T) {
	ref := time.Unix(1700000000, 0)
	txs := make([]helius.RawTransaction, 10)
	for i := range txs {
		txs[i] = helius.RawTransaction{BlockTime: ref.Unix()}
	}
	g := newTestGuard(&fakeHistory{txs: txs}, ref)

	ok, rate := g.Check(context.Background(), "w")
	if !ok || rate != 0 {
		t.Fatalf("Check() = (%v, %v), want (true, 0) on zero span", ok, rate)
	}
}
