// Package backend implements the Vault secrets engine backend.
package backend

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/model"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/storage"
	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

const (
	// Version is the semantic version of the plugin.
	Version = "v0.1.0"

	// PluginDescription provides a brief description of the plugin.
	PluginDescription = "Ascendry vault API access with the API key sealed in Vault"
)

// errNotConfigured is returned when a path needs the API client before
// config has been written.
var errNotConfigured = errors.New("backend is not configured: write api_key to config first")

// clientFactory builds an Ascendry client from stored configuration.
type clientFactory func(cfg *model.Config, logger hclog.Logger) (ascendry.Client, error)

// AscendryBackend is the main backend for the Ascendry secrets engine.
type AscendryBackend struct {
	*framework.Backend
	lock      sync.RWMutex
	client    ascendry.Client
	newClient clientFactory
}

// Factory creates a new AscendryBackend instance.
func Factory(ctx context.Context, conf *logical.BackendConfig) (logical.Backend, error) {
	b := newBackend(defaultClientFactory)
	if err := b.Setup(ctx, conf); err != nil {
		return nil, err
	}
	return b, nil
}

func newBackend(factory clientFactory) *AscendryBackend {
	b := &AscendryBackend{newClient: factory}

	b.Backend = &framework.Backend{
		Help: strings.TrimSpace(backendHelp),
		PathsSpecial: &logical.Paths{
			SealWrapStorage: []string{
				storage.ConfigKey,
			},
		},
		Paths: framework.PathAppend(
			pathConfig(b),
			pathNfts(b),
			pathLoans(b),
			pathVendors(b),
			pathTx(b),
		),
		BackendType:    logical.TypeLogical,
		Invalidate:     b.invalidate,
		RunningVersion: Version,
	}

	return b
}

func defaultClientFactory(cfg *model.Config, logger hclog.Logger) (ascendry.Client, error) {
	opts := []ascendry.Option{
		ascendry.WithLogger(logger),
		ascendry.WithUserAgent("vault-plugin-secrets-ascendry/" + Version),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ascendry.WithBaseURL(cfg.BaseURL))
	}
	return ascendry.NewClient(cfg.APIKey, opts...)
}

func (b *AscendryBackend) invalidate(ctx context.Context, key string) {
	if key == storage.ConfigKey {
		b.reset()
	}
}

// reset drops the cached client so the next request rebuilds it.
func (b *AscendryBackend) reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.client = nil
}

// getClient returns the cached client, building it from stored config on
// first use.
func (b *AscendryBackend) getClient(ctx context.Context, s logical.Storage) (ascendry.Client, error) {
	b.lock.RLock()
	client := b.client
	b.lock.RUnlock()
	if client != nil {
		return client, nil
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if b.client != nil {
		return b.client, nil
	}

	cfg, err := storage.New(s).GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.APIKey == "" {
		return nil, errNotConfigured
	}

	client, err = b.newClient(cfg, b.Logger())
	if err != nil {
		return nil, err
	}
	b.client = client
	return client, nil
}

// callResponse converts an SDK error into a Vault response: remote
// rejections and missing config become error responses, everything else
// propagates as an internal error.
func callResponse(err error) (*logical.Response, error) {
	if errors.Is(err, errNotConfigured) {
		return logical.ErrorResponse(err.Error()), nil
	}
	var remoteErr *ascendry.RemoteError
	if errors.As(err, &remoteErr) {
		resp := logical.ErrorResponse(remoteErr.Error())
		if remoteErr.RequestID != "" {
			resp.AddWarning("ascendry request id: " + remoteErr.RequestID)
		}
		return resp, nil
	}
	return nil, err
}

const backendHelp = `
The Ascendry secrets engine keeps an Ascendry API key sealed in Vault and
proxies calls to the Ascendry vault service on behalf of Vault clients.

Features:
- The API key is stored with SealWrap and never returned
- Read access to vaulted NFTs, loans, vendors and listings
- Unsigned transaction generation for loans, redemptions and memos
- Relay of signed transactions with a local submission record

Endpoints:
- POST   /config                        - Set api_key and base_url
- GET    /config                        - Read configuration (no api_key)
- GET    /nfts                          - List vaulted NFTs
- GET    /nfts/mint/:mint               - Read NFTs by mint
- GET    /nfts/:mint/history            - Read NFT custody history
- GET    /loans                         - List loans
- GET    /loans/nft/:mint               - Read loans for an NFT
- GET    /vendors/:address              - Read vendor profile
- GET    /vendors/:address/listings     - List vendor listings
- GET    /listings/:id                  - Read a listing
- POST   /listings/:id/cancel           - Cancel a listing
- GET    /redemptions/:mint             - Read redemption state
- POST   /tx/loan                       - Build an unsigned loan transaction
- POST   /tx/redemption                 - Build an unsigned redemption transaction
- POST   /tx/memo                       - Build an unsigned memo transaction
- POST   /tx/submit                     - Relay a signed transaction
- LIST   /tx/submissions                - List relayed transaction signatures
- GET    /tx/submissions/:signature     - Read a relayed transaction record

Signing is out of scope: pair this engine with a key engine that holds
the signer keys.
`
