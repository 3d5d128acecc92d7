// Package helius is a typed client for the Helius indexing API: webhook
// configuration (get/put), raw transaction history, token metadata, and DAS
// asset lookups. All calls are synchronous with per-call timeouts; transport
// retries are handled by retryablehttp with a small bounded policy.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/solxray/wallet-relay/internal/config"
)

// maxBodyBytes caps how much of a collaborator response we are willing to read.
const maxBodyBytes = 4 << 20

// WebhookConfig is the remote shared subscription: the single list of all
// addresses the webhook watches, across all users.
type WebhookConfig struct {
	WebhookID        string   `json:"webhookID"`
	WebhookURL       string   `json:"webhookURL"`
	AccountAddresses []string `json:"accountAddresses"`
	TransactionTypes []string `json:"transactionTypes,omitempty"`
	WebhookType      string   `json:"webhookType,omitempty"`
}

// RawTransaction is the slice of a raw history entry the rate guard needs.
type RawTransaction struct {
	Signature string `json:"signature"`
	BlockTime int64  `json:"blockTime"` // unix seconds
}

// Client talks to the Helius REST and RPC endpoints. Construct with New;
// the zero value is not usable.
type Client struct {
	http *retryablehttp.Client

	apiBase    string
	rpcBase    string
	apiKey     string
	webhookURL string

	historyTimeout  time.Duration
	registryTimeout time.Duration
}

// New builds a Client from config. The underlying transport retries
// transient failures up to twice with a short backoff.
func New(cfg config.HeliusConfig) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second

	return &Client{
		http:            rc,
		apiBase:         cfg.APIBaseURL,
		rpcBase:         cfg.RPCBaseURL,
		apiKey:          cfg.APIKey,
		webhookURL:      cfg.WebhookURL,
		historyTimeout:  cfg.HistoryTimeout,
		registryTimeout: cfg.RegistryTimeout,
	}
}

// GetWebhook fetches the current shared webhook configuration.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*WebhookConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, c.registryTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v0/webhooks/%s?api-key=%s", c.apiBase, webhookID, c.apiKey)
	var out WebhookConfig
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("get webhook: %w", err)
	}
	if out.WebhookID == "" {
		return nil, fmt.Errorf("get webhook: response missing webhookID")
	}
	if out.AccountAddresses == nil {
		out.AccountAddresses = []string{}
	}
	return &out, nil
}

// PutWebhook overwrites the remote address list in full. The Helius API has
// no incremental add/remove, so callers do read-modify-write.
func (c *Client) PutWebhook(ctx context.Context, webhookID string, addresses []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.registryTimeout)
	defer cancel()

	if addresses == nil {
		addresses = []string{}
	}
	body := WebhookConfig{
		WebhookURL:       c.webhookURL,
		AccountAddresses: addresses,
		TransactionTypes: []string{"Any"},
		WebhookType:      "enhanced",
	}
	url := fmt.Sprintf("%s/v0/webhooks/%s?api-key=%s", c.apiBase, webhookID, c.apiKey)
	if err := c.sendJSON(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("put webhook: %w", err)
	}
	return nil
}

// RawTransactions returns the most recent raw history entries for wallet,
// newest first, as the API delivers them.
func (c *Client) RawTransactions(ctx context.Context, wallet string) ([]RawTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v0/addresses/%s/raw-transactions?api-key=%s", c.apiBase, wallet, c.apiKey)
	var out []RawTransaction
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("raw transactions: %w", err)
	}
	return out, nil
}

// tokenMetadataEntry mirrors the part of the token-metadata response that
// carries the off-chain image, ignoring the rest.
type tokenMetadataEntry struct {
	OffChainMetadata struct {
		Metadata struct {
			Image string `json:"image"`
		} `json:"metadata"`
	} `json:"offChainMetadata"`
}

// NFTImage resolves the off-chain preview image for an NFT mint. A missing
// image is not an error; the caller treats "" as "no preview".
func (c *Client) NFTImage(ctx context.Context, mint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v0/token-metadata?api-key=%s", c.apiBase, c.apiKey)
	req := map[string]any{
		"mintAccounts":    []string{mint},
		"includeOffChain": true,
		"disableCache":    false,
	}
	var out []tokenMetadataEntry
	if err := c.sendJSON(ctx, http.MethodPost, url, req, &out); err != nil {
		return "", fmt.Errorf("token metadata: %w", err)
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0].OffChainMetadata.Metadata.Image, nil
}

// rpcRequest is the JSON-RPC envelope for DAS calls.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// AssetImage resolves the preview image for a compressed asset: getAsset
// for the JSON URI, then a plain fetch of that URI for its image field.
func (c *Client) AssetImage(ctx context.Context, assetID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/?api-key=%s", c.rpcBase, c.apiKey)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      "wallet-relay",
		Method:  "getAsset",
		Params:  []string{assetID},
	}
	var rpcResp struct {
		Result struct {
			Content struct {
				JSONURI string `json:"json_uri"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, url, req, &rpcResp); err != nil {
		return "", fmt.Errorf("get asset: %w", err)
	}
	uri := rpcResp.Result.Content.JSONURI
	if uri == "" {
		return "", fmt.Errorf("get asset: response missing json_uri")
	}

	var meta struct {
		Image string `json:"image"`
	}
	if err := c.getJSON(ctx, uri, &meta); err != nil {
		return "", fmt.Errorf("asset metadata: %w", err)
	}
	return meta.Image, nil
}

// getJSON issues a GET and decodes a 2xx JSON response into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// sendJSON issues a request with a JSON body and optionally decodes the
// response into out (when non-nil).
func (c *Client) sendJSON(ctx context.Context, method, url string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *retryablehttp.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
