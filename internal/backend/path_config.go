package backend

import (
	"context"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/model"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/storage"
)

func pathConfig(b *AscendryBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "config",
			Fields: map[string]*framework.FieldSchema{
				"api_key": {
					Type:        framework.TypeString,
					Description: "Ascendry API key (required on first write, never returned)",
					DisplayAttrs: &framework.DisplayAttributes{
						Sensitive: true,
					},
				},
				"base_url": {
					Type:        framework.TypeString,
					Description: "Ascendry API address (default: https://api.ascendry.io)",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathConfigWrite,
					Summary:  "Configure the Ascendry API credentials",
				},
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathConfigRead,
					Summary:  "Read the configuration (without the API key)",
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathConfigDelete,
					Summary:  "Remove the configuration",
				},
			},
			HelpSynopsis:    "Configure the Ascendry API key and address",
			HelpDescription: pathConfigHelpDescription,
		},
	}
}

// pathConfigWrite handles POST /config
func (b *AscendryBackend) pathConfigWrite(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	cs := storage.New(req.Storage)
	cfg, err := cs.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &model.Config{}
	}

	if v, ok := d.GetOk("api_key"); ok {
		cfg.APIKey = v.(string)
	}
	if cfg.APIKey == "" {
		return logical.ErrorResponse("api_key is required"), nil
	}

	if v, ok := d.GetOk("base_url"); ok {
		baseURL := v.(string)
		if baseURL != "" {
			if err := ValidateBaseURL(baseURL); err != nil {
				return logical.ErrorResponse(err.Error()), nil
			}
		}
		cfg.BaseURL = baseURL
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := cs.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	b.reset()

	b.Logger().Info("configuration updated", "base_url", cfg.BaseURL)

	return &logical.Response{
		Data: cfg.ToInfo().ToResponseData(),
	}, nil
}

// pathConfigRead handles GET /config
func (b *AscendryBackend) pathConfigRead(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	cfg, err := storage.New(req.Storage).GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}

	return &logical.Response{
		Data: cfg.ToInfo().ToResponseData(),
	}, nil
}

// pathConfigDelete handles DELETE /config
func (b *AscendryBackend) pathConfigDelete(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	if err := storage.New(req.Storage).DeleteConfig(ctx); err != nil {
		return nil, err
	}
	b.reset()
	return nil, nil
}

const pathConfigHelpDescription = `
Stores the Ascendry API key and optional API address.

The API key is written with SealWrap and is never returned; reads report
only whether a key is set. Every write replaces the cached API client.

Parameters:
- api_key (string, required on first write): Ascendry API key
- base_url (string, optional): API address, empty for the default
`
