// Package services defines the business logic for wallet registration, the
// webhook registry, the transaction-rate guard, and notification formatting.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing bot replies or HTTP status codes is performed at the
// boundary (bot flow / HTTP handlers).
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress indicates the candidate string is not a
	// syntactically valid Solana wallet address.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrWalletLimit is returned when a user already holds the maximum
	// number of active subscriptions.
	ErrWalletLimit = errors.New("wallet limit reached")

	// ErrDuplicateWallet is returned when the user already has an active
	// subscription on the candidate address.
	ErrDuplicateWallet = errors.New("wallet already registered")

	// ErrRegistryUnavailable indicates the remote webhook registry could not
	// be read or written; the caller must not persist local state.
	ErrRegistryUnavailable = errors.New("webhook registry unavailable")

	// ErrWalletNotFound is returned by removal when the user holds no
	// subscription on the given address.
	ErrWalletNotFound = errors.New("wallet not found")
)

// TooActiveError rejects a wallet whose observed transaction rate exceeds
// the guard threshold. Rate carries the computed transactions-per-day value
// for display to the user.
type TooActiveError struct {
	Rate float64
}

func (e *TooActiveError) Error() string {
	return fmt.Sprintf("wallet too active: %.1f tx/day", e.Rate)
}
