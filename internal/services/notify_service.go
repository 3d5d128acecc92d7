// Package services – NotifyService
//
// This file implements the webhook-to-notification formatter: it turns one
// transaction event into zero or more per-user display messages. The
// audience is every user holding an active subscription on any account the
// event touched; each user gets a rendering in which their own wallets are
// called out and every other long address is masked.
package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/helius"
)

// AudienceRepo resolves which subscriptions are touched by a set of accounts.
type AudienceRepo interface {
	ListSubscriptionsByAddresses(ctx context.Context, db *gorm.DB, addrs []string) ([]domain.WalletSubscription, error)
}

// ImageResolver resolves preview images for NFT and compressed-asset events.
type ImageResolver interface {
	NFTImage(ctx context.Context, mint string) (string, error)
	AssetImage(ctx context.Context, assetID string) (string, error)
}

// NotifyService renders transaction events into outbound messages.
type NotifyService struct {
	DB     *gorm.DB
	Repo   AudienceRepo
	Images ImageResolver
}

// NewNotifyService constructs a NotifyService.
func NewNotifyService(db *gorm.DB, r AudienceRepo, img ImageResolver) *NotifyService {
	return &NotifyService{DB: db, Repo: r, Images: img}
}

// maskRE matches address-length alphanumeric runs. 32–44 covers base58
// renderings of 32-byte keys; anything shorter is left alone.
var maskRE = regexp.MustCompile(`[A-Za-z0-9]{32,44}`)

// shorten renders an address as its first four and last four characters.
func shorten(addr string) string {
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// BuildMessages produces one OutboundMessage per distinct user whose active
// subscriptions intersect the accounts touched by ev. Output order across
// users is deterministic but not part of the contract. A failed image
// resolution degrades to a text-only message, never an error.
func (s *NotifyService) BuildMessages(ctx context.Context, ev *helius.TransactionEvent) ([]domain.OutboundMessage, error) {
	subs, err := s.Repo.ListSubscriptionsByAddresses(ctx, s.DB, ev.Accounts())
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	wallets := make(map[string][]string) // user id -> their matched wallets
	for _, sub := range subs {
		wallets[sub.UserID] = append(wallets[sub.UserID], sub.Address)
	}
	users := make([]string, 0, len(wallets))
	for uid := range wallets {
		users = append(users, uid)
	}
	sort.Strings(users)

	image := s.resolveImage(ctx, ev)

	out := make([]domain.OutboundMessage, 0, len(users))
	for _, uid := range users {
		out = append(out, domain.OutboundMessage{
			UserID:   uid,
			Text:     renderMessage(ev, wallets[uid]),
			ImageURL: image,
		})
	}
	return out, nil
}

// renderMessage renders one event for one user.
//
// The self-wallet substitution must run before the generic masking pass:
// once an address is shortened to "abcd...wxyz" it can no longer be matched
// against the user's full registered address.
func renderMessage(ev *helius.TransactionEvent, userWallets []string) string {
	msg := "*" + strings.ReplaceAll(ev.Type, "_", " ") + "*"
	if !ev.IsSystemSource() {
		msg += " on " + ev.Source
	}

	if ev.Description != "" {
		desc := ev.Description
		for _, w := range userWallets {
			if !strings.Contains(desc, w) {
				continue
			}
			desc = strings.ReplaceAll(desc, w, "*YOUR WALLET* ("+shorten(w)+")")
		}
		msg += "\n\n" + desc
	}

	msg = maskRE.ReplaceAllStringFunc(msg, shorten)
	msg += "\n[XRAY](https://xray.helius.xyz/tx/" + ev.Signature + ") | [Solscan](https://solscan.io/tx/" + ev.Signature + ")"

	// Telegram Markdown: bare '#' and '_' would be taken as markup.
	msg = strings.ReplaceAll(msg, "#", "")
	msg = strings.ReplaceAll(msg, "_", " ")
	return msg
}

// resolveImage picks a preview for the event: NFT transfer metadata when a
// non-fungible mint is present, otherwise the compressed-asset metadata.
// All failures degrade silently to "no image".
func (s *NotifyService) resolveImage(ctx context.Context, ev *helius.TransactionEvent) string {
	if mint := ev.NFTMint(); mint != "" {
		img, err := s.Images.NFTImage(ctx, mint)
		if err != nil {
			log.Debug().Err(err).Str("mint", mint).Msg("nft image resolution failed")
			return ""
		}
		return img
	}
	if assetID := ev.CompressedAssetID(); assetID != "" {
		img, err := s.Images.AssetImage(ctx, assetID)
		if err != nil {
			log.Debug().Err(err).Str("asset_id", assetID).Msg("compressed image resolution failed")
			return ""
		}
		return img
	}
	return ""
}
