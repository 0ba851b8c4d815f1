package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/model"
	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk/mock"
)

const (
	testMint   = "So11111111111111111111111111111111111111112"
	testOwner  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testVendor = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

// getTestBackend returns a configured backend whose API client is client.
// builds counts how many times the client factory ran.
func getTestBackend(t *testing.T, client ascendry.Client) (*AscendryBackend, logical.Storage, *int) {
	t.Helper()
	builds := new(int)
	b := newBackend(func(cfg *model.Config, logger hclog.Logger) (ascendry.Client, error) {
		*builds++
		return client, nil
	})

	config := logical.TestBackendConfig()
	config.StorageView = &logical.InmemStorage{}
	if err := b.Setup(context.Background(), config); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return b, config.StorageView, builds
}

func request(t *testing.T, b logical.Backend, s logical.Storage, op logical.Operation, path string, data map[string]interface{}) *logical.Response {
	t.Helper()
	resp, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: op,
		Path:      path,
		Storage:   s,
		Data:      data,
	})
	if err != nil {
		t.Fatalf("%s %s: unexpected error: %v", op, path, err)
	}
	return resp
}

func configure(t *testing.T, b logical.Backend, s logical.Storage) {
	t.Helper()
	resp := request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"api_key": "test-api-key",
	})
	if resp != nil && resp.IsError() {
		t.Fatalf("config write failed: %v", resp.Error())
	}
}

func expectError(t *testing.T, resp *logical.Response, contains string) {
	t.Helper()
	if resp == nil || !resp.IsError() {
		t.Fatalf("expected error response, got %#v", resp)
	}
	if !strings.Contains(resp.Error().Error(), contains) {
		t.Errorf("expected error containing %q, got %q", contains, resp.Error())
	}
}

func seededMock() *mock.Mock {
	return mock.New(
		mock.WithNfts(
			ascendry.Nft{Mint: testMint, Owner: testOwner, Status: ascendry.NftStatusVaulted},
		),
		mock.WithLoans(
			ascendry.Loan{LoanID: "loan-1", NftMintAddress: testMint, Status: ascendry.LoanStatusActive},
		),
		mock.WithVendors(ascendry.GetVendorInfoResponse{VendorAddress: testVendor, Name: "Acme", Verified: true}),
		mock.WithListings(ascendry.VendorListing{ListingID: "lst-1", VendorAddress: testVendor, Title: "Rolex", PriceInSOL: 10}),
		mock.WithHistory(testMint, ascendry.NftHistoryEvent{Mint: testMint, EventType: "DEPOSIT"}),
	)
}

func TestConfig_WriteReadDelete(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())

	resp := request(t, b, s, logical.ReadOperation, "config", nil)
	if resp != nil {
		t.Fatalf("expected nil response before config, got %#v", resp)
	}

	resp = request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{})
	expectError(t, resp, "api_key is required")

	resp = request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"api_key":  "test-api-key",
		"base_url": "https://staging.ascendry.io",
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}

	resp = request(t, b, s, logical.ReadOperation, "config", nil)
	if resp.Data["api_key_set"] != true || resp.Data["base_url"] != "https://staging.ascendry.io" {
		t.Errorf("unexpected config: %v", resp.Data)
	}
	if _, ok := resp.Data["api_key"]; ok {
		t.Error("api_key must never be returned")
	}

	// A partial update keeps the stored key.
	resp = request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"base_url": "",
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	if resp.Data["api_key_set"] != true || resp.Data["base_url"] != "" {
		t.Errorf("unexpected config: %v", resp.Data)
	}

	resp = request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"base_url": "ftp://nope",
	})
	expectError(t, resp, "base_url")

	request(t, b, s, logical.DeleteOperation, "config", nil)
	if resp := request(t, b, s, logical.ReadOperation, "config", nil); resp != nil {
		t.Errorf("expected nil after delete, got %#v", resp)
	}
}

func TestNotConfigured(t *testing.T) {
	b, s, builds := getTestBackend(t, seededMock())

	resp := request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	expectError(t, resp, "not configured")
	if *builds != 0 {
		t.Errorf("client should not be built without config, built %d times", *builds)
	}
}

func TestClientCaching(t *testing.T) {
	b, s, builds := getTestBackend(t, seededMock())
	configure(t, b, s)

	request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if *builds != 1 {
		t.Fatalf("expected client built once, got %d", *builds)
	}

	b.invalidate(context.Background(), "config")
	request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if *builds != 2 {
		t.Fatalf("expected rebuild after invalidate, got %d", *builds)
	}

	b.invalidate(context.Background(), "unrelated")
	request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if *builds != 2 {
		t.Fatalf("unrelated invalidation should keep the client, got %d builds", *builds)
	}

	configure(t, b, s)
	request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if *builds != 3 {
		t.Fatalf("expected rebuild after config write, got %d", *builds)
	}
}

func TestNftPaths(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.ReadOperation, "nfts", map[string]interface{}{
		"owner_address":   testOwner,
		"pagination_size": 10,
	})
	nfts, ok := resp.Data["nfts"].([]ascendry.Nft)
	if !ok || len(nfts) != 1 || nfts[0].Mint != testMint {
		t.Fatalf("unexpected nfts: %#v", resp.Data["nfts"])
	}

	resp = request(t, b, s, logical.ReadOperation, "nfts", map[string]interface{}{
		"pagination_size": 1000,
	})
	expectError(t, resp, "pagination_size")

	resp = request(t, b, s, logical.ReadOperation, "nfts", map[string]interface{}{
		"owner_address": "not-an-address",
	})
	expectError(t, resp, "owner_address")

	resp = request(t, b, s, logical.ReadOperation, "nfts/mint/"+testMint, nil)
	if nfts := resp.Data["nfts"].([]ascendry.Nft); len(nfts) != 1 {
		t.Fatalf("unexpected nfts: %#v", nfts)
	}

	resp = request(t, b, s, logical.ReadOperation, "nfts/"+testMint+"/history", nil)
	if history := resp.Data["history"].([]ascendry.NftHistoryEvent); len(history) != 1 || history[0].EventType != "DEPOSIT" {
		t.Fatalf("unexpected history: %#v", history)
	}
}

func TestLoanPaths(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.ReadOperation, "loans", map[string]interface{}{
		"status": "ACTIVE",
	})
	if loans := resp.Data["loans"].([]ascendry.Loan); len(loans) != 1 || loans[0].LoanID != "loan-1" {
		t.Fatalf("unexpected loans: %#v", loans)
	}

	resp = request(t, b, s, logical.ReadOperation, "loans", map[string]interface{}{
		"status": "OPEN",
	})
	expectError(t, resp, "invalid status")

	resp = request(t, b, s, logical.ReadOperation, "loans/nft/"+testMint, nil)
	if loans := resp.Data["loans"].([]ascendry.Loan); len(loans) != 1 {
		t.Fatalf("unexpected loans: %#v", loans)
	}
}

func TestVendorAndListingPaths(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if resp.Data["name"] != "Acme" || resp.Data["verified"] != true {
		t.Fatalf("unexpected vendor: %v", resp.Data)
	}

	resp = request(t, b, s, logical.ReadOperation, "vendors/"+testVendor+"/listings", nil)
	if listings := resp.Data["listings"].([]ascendry.VendorListing); len(listings) != 1 {
		t.Fatalf("unexpected listings: %#v", listings)
	}

	resp = request(t, b, s, logical.ReadOperation, "listings/lst-1", nil)
	if listing := resp.Data["listing"].(ascendry.VendorListing); listing.Title != "Rolex" {
		t.Fatalf("unexpected listing: %#v", listing)
	}

	resp = request(t, b, s, logical.UpdateOperation, "listings/lst-1/cancel", map[string]interface{}{
		"vendor_address": testVendor,
	})
	if resp.Data["success"] != true {
		t.Fatalf("unexpected cancel response: %v", resp.Data)
	}

	resp = request(t, b, s, logical.UpdateOperation, "listings/missing/cancel", nil)
	expectError(t, resp, "not found")
}

func TestRemoteNotFound(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.ReadOperation, "redemptions/"+testMint, nil)
	expectError(t, resp, "HTTP 404")
}

func TestTransportFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	b, s, _ := getTestBackend(t, mock.New(mock.WithFailure(boom)))
	configure(t, b, s)

	_, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: logical.ReadOperation,
		Path:      "vendors/" + testVendor,
		Storage:   s,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestTxLoan(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.UpdateOperation, "tx/loan", map[string]interface{}{
		"instruction_type":      "STAKE_NFT_FOR_LOAN",
		"nft_mint_address":      testMint,
		"signer_address":        testOwner,
		"loan_amount_in_sol":    5.5,
		"loan_interest_in_sol":  0.25,
		"loan_duration_seconds": 86400,
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	if resp.Data["serialized_transaction"] == "" || resp.Data["loan_id"] == "" {
		t.Fatalf("unexpected response: %v", resp.Data)
	}

	resp = request(t, b, s, logical.UpdateOperation, "tx/loan", map[string]interface{}{
		"instruction_type": "REPAY_LOAN",
		"nft_mint_address": testMint,
		"signer_address":   testOwner,
		"loan_id":          "loan-1",
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	if resp.Data["instruction_type"] != "REPAY_LOAN" {
		t.Errorf("unexpected instruction type: %v", resp.Data["instruction_type"])
	}

	tests := []struct {
		name     string
		data     map[string]interface{}
		contains string
	}{
		{
			name:     "unknown instruction",
			data:     map[string]interface{}{"instruction_type": "BORROW", "nft_mint_address": testMint, "signer_address": testOwner},
			contains: "invalid instruction_type",
		},
		{
			name:     "zero amount",
			data:     map[string]interface{}{"instruction_type": "STAKE_NFT_FOR_LOAN", "nft_mint_address": testMint, "signer_address": testOwner, "loan_duration_seconds": 60},
			contains: "loan_amount_in_sol must be positive",
		},
		{
			name:     "missing loan id",
			data:     map[string]interface{}{"instruction_type": "FUND_LOAN", "nft_mint_address": testMint, "signer_address": testOwner},
			contains: "loan_id is required",
		},
		{
			name:     "bad signer",
			data:     map[string]interface{}{"instruction_type": "CANCEL_LOAN", "nft_mint_address": testMint, "signer_address": "x"},
			contains: "signer_address",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, b, s, logical.UpdateOperation, "tx/loan", tt.data)
			expectError(t, resp, tt.contains)
		})
	}
}

func TestTxRedemption(t *testing.T) {
	b, s, _ := getTestBackend(t, seededMock())
	configure(t, b, s)

	resp := request(t, b, s, logical.UpdateOperation, "tx/redemption", map[string]interface{}{
		"instruction_type":      "REQUEST_ASSET_REDEMPTION",
		"nft_mint_address":      testMint,
		"signer_address":        testOwner,
		"redemption_fee_in_sol": 0.1,
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	if resp.Data["serialized_transaction"] == "" {
		t.Fatalf("unexpected response: %v", resp.Data)
	}

	resp = request(t, b, s, logical.UpdateOperation, "tx/redemption", map[string]interface{}{
		"instruction_type": "STAKE_NFT_FOR_LOAN",
		"nft_mint_address": testMint,
		"signer_address":   testOwner,
	})
	expectError(t, resp, "invalid instruction_type")
}

func TestTxMemoAndSubmit(t *testing.T) {
	m := seededMock()
	b, s, _ := getTestBackend(t, m)
	configure(t, b, s)

	resp := request(t, b, s, logical.UpdateOperation, "tx/memo", map[string]interface{}{
		"memo":           "hello vault",
		"signer_address": testOwner,
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	tx := resp.Data["serialized_transaction"].(string)

	resp = request(t, b, s, logical.UpdateOperation, "tx/memo", map[string]interface{}{
		"memo":           strings.Repeat("x", MaxMemoLength+1),
		"signer_address": testOwner,
	})
	expectError(t, resp, "memo exceeds")

	resp = request(t, b, s, logical.UpdateOperation, "tx/submit", map[string]interface{}{
		"serialized_transaction": tx,
		"kind":                   "memo",
	})
	if resp.IsError() {
		t.Fatalf("unexpected error: %v", resp.Error())
	}
	signature := resp.Data["signature"].(string)
	if signature == "" {
		t.Fatal("expected signature")
	}
	if got := m.Submitted(); len(got) != 1 || got[0] != tx {
		t.Errorf("unexpected submitted transactions: %v", got)
	}

	resp = request(t, b, s, logical.ListOperation, "tx/submissions/", nil)
	keys, _ := resp.Data["keys"].([]string)
	if len(keys) != 1 || keys[0] != signature {
		t.Fatalf("unexpected submissions: %v", resp.Data)
	}

	resp = request(t, b, s, logical.ReadOperation, "tx/submissions/"+signature, nil)
	if resp.Data["kind"] != "memo" {
		t.Errorf("unexpected submission: %v", resp.Data)
	}

	resp = request(t, b, s, logical.UpdateOperation, "tx/submit", map[string]interface{}{
		"serialized_transaction": "not base64!",
	})
	expectError(t, resp, "base64")
}

func TestFactory_UsesStoredAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(ascendry.APIKeyHeader); got != "sealed-key" {
			t.Errorf("unexpected api key: %q", got)
		}
		if r.URL.Path != "/vendors/"+testVendor {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "vault-plugin-secrets-ascendry/") {
			t.Errorf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"vendorAddress": testVendor, "name": "Acme"})
	}))
	t.Cleanup(srv.Close)

	config := logical.TestBackendConfig()
	config.StorageView = &logical.InmemStorage{}
	b, err := Factory(context.Background(), config)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	s := config.StorageView

	resp := request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"api_key":  "sealed-key",
		"base_url": srv.URL,
	})
	if resp.IsError() {
		t.Fatalf("config write failed: %v", resp.Error())
	}

	resp = request(t, b, s, logical.ReadOperation, "vendors/"+testVendor, nil)
	if resp.Data["name"] != "Acme" {
		t.Fatalf("unexpected vendor: %v", resp.Data)
	}
}

func TestTxSubmit_NullRelayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"signature":null}`)
	}))
	t.Cleanup(srv.Close)

	config := logical.TestBackendConfig()
	config.StorageView = &logical.InmemStorage{}
	b, err := Factory(context.Background(), config)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	s := config.StorageView

	resp := request(t, b, s, logical.UpdateOperation, "config", map[string]interface{}{
		"api_key":  "sealed-key",
		"base_url": srv.URL,
	})
	if resp.IsError() {
		t.Fatalf("config write failed: %v", resp.Error())
	}

	resp, err = b.HandleRequest(context.Background(), &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "tx/submit",
		Storage:   s,
		Data:      map[string]interface{}{"serialized_transaction": "AQID"},
	})
	if err == nil && (resp == nil || !resp.IsError()) {
		t.Fatalf("expected relay failure, got %#v", resp)
	}

	list := request(t, b, s, logical.ListOperation, "tx/submissions/", nil)
	if keys, _ := list.Data["keys"].([]string); len(keys) != 0 {
		t.Errorf("expected no recorded submissions, got %v", keys)
	}
}
