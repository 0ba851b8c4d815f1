package backend

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

func pathLoans(b *AscendryBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "loans/?$",
			Fields: withPageFields(map[string]*framework.FieldSchema{
				"status": {
					Type:        framework.TypeString,
					Description: "Filter by loan status: PENDING, ACTIVE, REPAID, CANCELLED or FORECLOSED",
				},
			}),
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathLoansList,
					Summary:  "List loans",
				},
			},
			HelpSynopsis:    "List loans",
			HelpDescription: "Returns one page of loans, optionally filtered by status.",
		},
		{
			Pattern: "loans/nft/" + framework.GenericNameRegex("mint"),
			Fields: map[string]*framework.FieldSchema{
				"mint": mintField(),
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathLoansByMint,
					Summary:  "Read the loans collateralized by an NFT",
				},
			},
			HelpSynopsis:    "Read the loans collateralized by an NFT",
			HelpDescription: "Returns every loan that used the NFT as collateral.",
		},
	}
}

// pathLoansList handles GET /loans
func (b *AscendryBackend) pathLoansList(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	status := d.Get("status").(string)
	size := d.Get("pagination_size").(int)
	if err := ValidateLoanStatus(status); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	if err := ValidatePaginationSize(size); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetLoans(ctx, &ascendry.GetLoansRequest{
		Status:           ascendry.LoanStatus(status),
		LastEvaluatedKey: d.Get("last_evaluated_key").(string),
		PaginationSize:   size,
	})
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"loans":              result.Loans,
			"last_evaluated_key": result.LastEvaluatedKey,
		},
	}, nil
}

// pathLoansByMint handles GET /loans/nft/:mint
func (b *AscendryBackend) pathLoansByMint(
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
	result, err := client.GetLoansByNftMintAddress(ctx, mint)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"loans": result.Loans,
		},
	}, nil
}
