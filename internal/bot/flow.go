// Package bot implements the Telegram conversation surface: the /start
// menu, the add/delete wallet flows, and the wallet listing. The flow logic
// here is transport-free; handlers.go binds it to the Telegram update loop.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/services"
)

// WalletManager is the slice of the wallet service the bot needs.
type WalletManager interface {
	Register(ctx context.Context, userID, address string) error
	Unregister(ctx context.Context, userID, address string) error
	List(ctx context.Context, userID string) ([]domain.WalletSubscription, error)
}

// Flow turns conversation input into replies and next states.
type Flow struct {
	Wallets WalletManager
}

// NewFlow constructs a Flow over the wallet service.
func NewFlow(w WalletManager) *Flow {
	return &Flow{Wallets: w}
}

// HandleAddInput processes one text message while the chat is adding a
// wallet. done reports whether the conversation ends; when false the chat
// stays in the adding state and the reply asks for another attempt.
func (f *Flow) HandleAddInput(ctx context.Context, userID, text string) (reply string, done bool) {
	address := strings.TrimSpace(text)
	if address == "" {
		return addEmptyText, false
	}

	err := f.Wallets.Register(ctx, userID, address)
	if err == nil {
		return addSuccessText, true
	}

	var tooActive *services.TooActiveError
	switch {
	case errors.Is(err, services.ErrInvalidAddress):
		return addInvalidText, false
	case errors.As(err, &tooActive):
		return fmt.Sprintf(addTooActiveText, tooActive.Rate), false
	case errors.Is(err, services.ErrWalletLimit):
		return addLimitText, false
	case errors.Is(err, services.ErrDuplicateWallet):
		return addDuplicateText, true
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("wallet registration failed")
		return addFailedText, true
	}
}

// HandleDeleteInput processes one text message while the chat is deleting a
// wallet. The conversation always ends after one attempt.
func (f *Flow) HandleDeleteInput(ctx context.Context, userID, text string) string {
	address := strings.TrimSpace(text)

	err := f.Wallets.Unregister(ctx, userID, address)
	switch {
	case err == nil:
		return deleteSuccessText
	case errors.Is(err, services.ErrWalletNotFound):
		return deleteMissingText
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("wallet removal failed")
		return deleteFailedText
	}
}

// ShowWallets renders the user's wallet list.
func (f *Flow) ShowWallets(ctx context.Context, userID string) string {
	subs, err := f.Wallets.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("wallet listing failed")
		return showEmptyText
	}
	if len(subs) == 0 {
		return showEmptyText
	}

	addrs := make([]string, len(subs))
	for i, sub := range subs {
		addrs[i] = sub.Address
	}
	return fmt.Sprintf(showListText, strings.Join(addrs, "\n"))
}
