package helius

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/solxray/wallet-relay/internal/config"
)

func testClient(apiURL, rpcURL string) *Client {
	return New(config.HeliusConfig{
		APIKey:          "test-key",
		APIBaseURL:      strings.TrimRight(apiURL, "/"),
		RPCBaseURL:      strings.TrimRight(rpcURL, "/"),
		WebhookURL:      "https://relay.example.com/wallet",
		HistoryTimeout:  5 * time.Second,
		RegistryTimeout: 5 * time.Second,
	})
}

func TestGetWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/v0/webhooks/wh-1") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("api-key") != "test-key" {
			t.Errorf("api-key missing: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"webhookID":        "wh-1",
			"accountAddresses": []string{"addr1", "addr2"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	cfg, err := c.GetWebhook(context.Background(), "wh-1")
	if err != nil {
		t.Fatalf("GetWebhook: %v", err)
	}
	if cfg.WebhookID != "wh-1" || len(cfg.AccountAddresses) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestGetWebhook_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"accountAddresses": []}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	if _, err := c.GetWebhook(context.Background(), "wh-1"); err == nil {
		t.Fatal("expected error for response missing webhookID")
	}
}

func TestGetWebhook_NilAddressesBecomesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"webhookID": "wh-1"}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	cfg, err := c.GetWebhook(context.Background(), "wh-1")
	if err != nil {
		t.Fatalf("GetWebhook: %v", err)
	}
	if cfg.AccountAddresses == nil || len(cfg.AccountAddresses) != 0 {
		t.Fatalf("AccountAddresses = %#v, want empty non-nil slice", cfg.AccountAddresses)
	}
}

func TestPutWebhook_BodyShape(t *testing.T) {
	var got WebhookConfig
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	if err := c.PutWebhook(context.Background(), "wh-1", []string{"a", "b"}); err != nil {
		t.Fatalf("PutWebhook: %v", err)
	}
	if got.WebhookURL != "https://relay.example.com/wallet" {
		t.Errorf("webhookURL = %q", got.WebhookURL)
	}
	if got.WebhookType != "enhanced" {
		t.Errorf("webhookType = %q", got.WebhookType)
	}
	if len(got.TransactionTypes) != 1 || got.TransactionTypes[0] != "Any" {
		t.Errorf("transactionTypes = %v", got.TransactionTypes)
	}
	if len(got.AccountAddresses) != 2 {
		t.Errorf("accountAddresses = %v", got.AccountAddresses)
	}
}

func TestPutWebhook_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	if err := c.PutWebhook(context.Background(), "wh-1", nil); err == nil {
		t.Fatal("expected error on 400")
	}
}

func TestRawTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v0/addresses/wallet1/raw-transactions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `[{"signature":"s1","blockTime":1700000100},{"signature":"s2","blockTime":1700000000}]`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	txs, err := c.RawTransactions(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("RawTransactions: %v", err)
	}
	if len(txs) != 2 || txs[1].BlockTime != 1700000000 {
		t.Fatalf("unexpected txs: %+v", txs)
	}
}

func TestNFTImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		mints, _ := req["mintAccounts"].([]any)
		if len(mints) != 1 || mints[0] != "mint1" {
			t.Errorf("mintAccounts = %v", req["mintAccounts"])
		}
		io.WriteString(w, `[{"offChainMetadata":{"metadata":{"image":"https://img.example/nft.png"}}}]`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	img, err := c.NFTImage(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("NFTImage: %v", err)
	}
	if img != "https://img.example/nft.png" {
		t.Fatalf("image = %q", img)
	}
}

func TestNFTImage_NoMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"offChainMetadata":{}}]`)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	img, err := c.NFTImage(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("NFTImage: %v", err)
	}
	if img != "" {
		t.Fatalf("image = %q, want empty", img)
	}
}

func TestAssetImage_TwoStepResolution(t *testing.T) {
	meta := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"image":"https://img.example/compressed.png"}`)
	}))
	defer meta.Close()

	rpc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc: %v", err)
		}
		if req.Method != "getAsset" {
			t.Errorf("method = %s", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"content": map[string]any{"json_uri": meta.URL}},
		})
	}))
	defer rpc.Close()

	c := testClient(rpc.URL, rpc.URL)
	img, err := c.AssetImage(context.Background(), "asset9")
	if err != nil {
		t.Fatalf("AssetImage: %v", err)
	}
	if img != "https://img.example/compressed.png" {
		t.Fatalf("image = %q", img)
	}
}

func TestAssetImage_MissingURI(t *testing.T) {
	rpc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":{"content":{}}}`)
	}))
	defer rpc.Close()

	c := testClient(rpc.URL, rpc.URL)
	if _, err := c.AssetImage(context.Background(), "asset9"); err == nil {
		t.Fatal("expected error for missing json_uri")
	}
}
