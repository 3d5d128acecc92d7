// Transaction-event envelope types.
//
// Helius delivers enhanced transactions as a JSON array containing one event
// object. Decoding is strict where it matters: a malformed body, an empty
// array, or an event with no signature is a parse error surfaced to the
// webhook endpoint, never a mid-pipeline panic on a missing key.
package helius

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// sourceSystemProgram marks plain system-level events; the formatter omits
// the "on {source}" suffix for these.
const sourceSystemProgram = "SYSTEM_PROGRAM"

// TokenTransfer is one token movement inside an event.
type TokenTransfer struct {
	Mint            string `json:"mint"`
	TokenStandard   string `json:"tokenStandard"`
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
}

// Instruction carries the accounts referenced by one instruction.
type Instruction struct {
	Accounts []string `json:"accounts"`
}

// CompressedEvent references a compressed asset affected by the transaction.
type CompressedEvent struct {
	AssetID string `json:"assetId"`
}

// EventDetails holds the optional typed sub-events of a transaction.
type EventDetails struct {
	Compressed []CompressedEvent `json:"compressed"`
}

// TransactionEvent is one enhanced transaction as delivered by the webhook.
// Consumed, never persisted in full.
type TransactionEvent struct {
	Type           string          `json:"type"`
	Signature      string          `json:"signature"`
	Source         string          `json:"source"`
	Description    string          `json:"description"`
	Instructions   []Instruction   `json:"instructions"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
	Events         EventDetails    `json:"events"`
}

// ErrEmptyEnvelope is returned when the webhook body decodes to an empty array.
var ErrEmptyEnvelope = errors.New("empty transaction envelope")

// ParseEnvelope decodes the webhook body (a single-element JSON array) into
// its transaction event, failing fast on malformed input.
func ParseEnvelope(body []byte) (*TransactionEvent, error) {
	var events []TransactionEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrEmptyEnvelope
	}
	ev := events[0]
	if ev.Signature == "" {
		return nil, errors.New("decode envelope: event missing signature")
	}
	if ev.Type == "" {
		return nil, errors.New("decode envelope: event missing type")
	}
	return &ev, nil
}

// Accounts returns the deduplicated set of accounts touched by the event:
// every account of every instruction, plus the from/to endpoints of each
// token transfer. Order is not specified.
func (e *TransactionEvent) Accounts() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	add := func(a string) {
		if a == "" {
			return
		}
		if _, dup := seen[a]; dup {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}

	for _, inst := range e.Instructions {
		for _, a := range inst.Accounts {
			add(a)
		}
	}
	for _, tt := range e.TokenTransfers {
		add(tt.FromUserAccount)
		add(tt.ToUserAccount)
	}
	return out
}

// NFTMint returns the mint of a non-fungible token transfer in the event,
// or "" when none is present. When several transfers qualify the last one
// wins, matching how the relay has always resolved previews.
func (e *TransactionEvent) NFTMint() string {
	mint := ""
	for _, tt := range e.TokenTransfers {
		if strings.Contains(tt.TokenStandard, "NonFungible") {
			mint = tt.Mint
		}
	}
	return mint
}

// CompressedAssetID returns the asset id of the first compressed sub-event,
// or "" when the event carries none.
func (e *TransactionEvent) CompressedAssetID() string {
	if len(e.Events.Compressed) == 0 {
		return ""
	}
	return e.Events.Compressed[0].AssetID
}

// IsSystemSource reports whether the event came from the plain system
// program rather than a notable protocol.
func (e *TransactionEvent) IsSystemSource() bool {
	return e.Source == sourceSystemProgram
}
