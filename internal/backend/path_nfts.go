package backend

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

var pageFields = map[string]*framework.FieldSchema{
	"last_evaluated_key": {
		Type:        framework.TypeString,
		Description: "Cursor returned by the previous page",
	},
	"pagination_size": {
		Type:        framework.TypeInt,
		Description: "Page size (max 100, 0 for the server default)",
	},
}

// withPageFields returns fields extended with the paging parameters.
func withPageFields(fields map[string]*framework.FieldSchema) map[string]*framework.FieldSchema {
	out := make(map[string]*framework.FieldSchema, len(fields)+len(pageFields))
	for k, v := range pageFields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func mintField() *framework.FieldSchema {
	return &framework.FieldSchema{
		Type:        framework.TypeString,
		Description: "NFT mint address",
		Required:    true,
	}
}

func pathNfts(b *AscendryBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "nfts/?$",
			Fields: withPageFields(map[string]*framework.FieldSchema{
				"owner_address": {
					Type:        framework.TypeString,
					Description: "Filter by owner address",
				},
			}),
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathNftsList,
					Summary:  "List vaulted NFTs",
				},
			},
			HelpSynopsis:    "List vaulted NFTs",
			HelpDescription: "Returns one page of vaulted NFTs. Pass last_evaluated_key from the previous response to read the next page.",
		},
		{
			Pattern: "nfts/mint/" + framework.GenericNameRegex("mint"),
			Fields: map[string]*framework.FieldSchema{
				"mint": mintField(),
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathNftsByMint,
					Summary:  "Read vaulted NFTs by mint address",
				},
			},
			HelpSynopsis:    "Read vaulted NFTs by mint address",
			HelpDescription: "Returns the vaulted NFTs matching a mint address.",
		},
		{
			Pattern: "nfts/" + framework.GenericNameRegex("mint") + "/history",
			Fields: withPageFields(map[string]*framework.FieldSchema{
				"mint": mintField(),
			}),
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathNftHistory,
					Summary:  "Read the custody history of an NFT",
				},
			},
			HelpSynopsis:    "Read the custody history of an NFT",
			HelpDescription: "Returns one page of custody events for an NFT.",
		},
		{
			Pattern: "redemptions/" + framework.GenericNameRegex("mint"),
			Fields: map[string]*framework.FieldSchema{
				"mint": mintField(),
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathRedemptionRead,
					Summary:  "Read the redemption state of an NFT",
				},
			},
			HelpSynopsis:    "Read the redemption state of an NFT",
			HelpDescription: "Returns the asset redemption record for an NFT, including carrier and tracking number once shipped.",
		},
	}
}

// pathNftsList handles GET /nfts
func (b *AscendryBackend) pathNftsList(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	owner := d.Get("owner_address").(string)
	size := d.Get("pagination_size").(int)

	if owner != "" {
		if err := ValidateAddress("owner_address", owner); err != nil {
			return logical.ErrorResponse(err.Error()), nil
		}
	}
	if err := ValidatePaginationSize(size); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetVaultNfts(ctx, &ascendry.GetVaultNftsRequest{
		OwnerAddress:     owner,
		LastEvaluatedKey: d.Get("last_evaluated_key").(string),
		PaginationSize:   size,
	})
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"nfts":               result.Nfts,
			"last_evaluated_key": result.LastEvaluatedKey,
		},
	}, nil
}

// pathNftsByMint handles GET /nfts/mint/:mint
func (b *AscendryBackend) pathNftsByMint(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	mint := d.Get("mint").(string)
	if err := ValidateAddress("mint", mint); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetVaultNftsByMint(ctx, mint)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"nfts": result.Nfts,
		},
	}, nil
}

// pathNftHistory handles GET /nfts/:mint/history
func (b *AscendryBackend) pathNftHistory(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	mint := d.Get("mint").(string)
	size := d.Get("pagination_size").(int)
	if err := ValidateAddress("mint", mint); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	if err := ValidatePaginationSize(size); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetNftHistory(ctx, &ascendry.GetNftHistoryRequest{
		NftMintAddress:   mint,
		LastEvaluatedKey: d.Get("last_evaluated_key").(string),
		PaginationSize:   size,
	})
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"history":            result.History,
			"last_evaluated_key": result.LastEvaluatedKey,
		},
	}, nil
}

// pathRedemptionRead handles GET /redemptions/:mint
func (b *AscendryBackend) pathRedemptionRead(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	mint := d.Get("mint").(string)
	if err := ValidateAddress("mint", mint); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	info, err := client.GetAssetRedemptionInfo(ctx, mint)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"redemption_id":    info.RedemptionID,
			"nft_mint_address": info.NftMintAddress,
			"owner_address":    info.OwnerAddress,
			"status":           string(info.Status),
			"tracking_number":  info.TrackingNumber,
			"carrier":          info.Carrier,
			"requested_at_ms":  info.RequestedAtMs,
			"updated_at_ms":    info.UpdatedAtMs,
		},
	}, nil
}
