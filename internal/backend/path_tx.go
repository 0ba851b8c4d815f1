package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/model"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/storage"
	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

func pathTx(b *AscendryBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "tx/loan",
			Fields: map[string]*framework.FieldSchema{
				"instruction_type": {
					Type:        framework.TypeString,
					Description: "STAKE_NFT_FOR_LOAN, FUND_LOAN, REPAY_LOAN, CANCEL_LOAN or FORECLOSE_LOAN",
					Required:    true,
				},
				"nft_mint_address": {
					Type:        framework.TypeString,
					Description: "Collateral NFT mint address",
					Required:    true,
				},
				"signer_address": {
					Type:        framework.TypeString,
					Description: "Wallet that will sign the transaction",
					Required:    true,
				},
				"loan_id": {
					Type:        framework.TypeString,
					Description: "Target loan (FUND_LOAN, REPAY_LOAN, FORECLOSE_LOAN)",
				},
				"loan_amount_in_sol": {
					Type:        framework.TypeFloat,
					Description: "Requested principal in SOL (STAKE_NFT_FOR_LOAN)",
				},
				"loan_interest_in_sol": {
					Type:        framework.TypeFloat,
					Description: "Interest owed at repayment in SOL (STAKE_NFT_FOR_LOAN)",
				},
				"loan_duration_seconds": {
					Type:        framework.TypeInt,
					Description: "Loan duration in seconds (STAKE_NFT_FOR_LOAN)",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathTxLoan,
					Summary:  "Build an unsigned loan transaction",
				},
			},
			HelpSynopsis:    "Build an unsigned loan transaction",
			HelpDescription: pathTxLoanHelpDescription,
		},
		{
			Pattern: "tx/redemption",
			Fields: map[string]*framework.FieldSchema{
				"instruction_type": {
					Type:        framework.TypeString,
					Description: "REQUEST_ASSET_REDEMPTION or CANCEL_ASSET_REDEMPTION",
					Required:    true,
				},
				"nft_mint_address": {
					Type:        framework.TypeString,
					Description: "NFT mint address",
					Required:    true,
				},
				"signer_address": {
					Type:        framework.TypeString,
					Description: "Wallet that will sign the transaction",
					Required:    true,
				},
				"redemption_fee_in_sol": {
					Type:        framework.TypeFloat,
					Description: "Redemption fee in SOL (REQUEST_ASSET_REDEMPTION)",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathTxRedemption,
					Summary:  "Build an unsigned asset redemption transaction",
				},
			},
			HelpSynopsis:    "Build an unsigned asset redemption transaction",
			HelpDescription: "Builds an unsigned transaction that locks or releases an NFT for physical redemption.",
		},
		{
			Pattern: "tx/memo",
			Fields: map[string]*framework.FieldSchema{
				"memo": {
					Type:        framework.TypeString,
					Description: "Memo message (max 566 bytes)",
					Required:    true,
				},
				"signer_address": {
					Type:        framework.TypeString,
					Description: "Wallet that will sign the transaction",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathTxMemo,
					Summary:  "Build an unsigned memo transaction",
				},
			},
			HelpSynopsis:    "Build an unsigned memo transaction",
			HelpDescription: "Builds an unsigned transaction carrying only a memo instruction.",
		},
		{
			Pattern: "tx/submit",
			Fields: map[string]*framework.FieldSchema{
				"serialized_transaction": {
					Type:        framework.TypeString,
					Description: "Base64-encoded signed transaction",
					Required:    true,
				},
				"kind": {
					Type:        framework.TypeString,
					Description: "Free-form label stored with the submission record (e.g. loan, memo)",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathTxSubmit,
					Summary:  "Relay a signed transaction",
				},
			},
			HelpSynopsis:    "Relay a signed transaction",
			HelpDescription: "Submits a signed transaction through the Ascendry RPC relay and records the resulting signature.",
		},
		{
			Pattern: "tx/submissions/?$",
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathSubmissionsList,
					Summary:  "List relayed transaction signatures",
				},
			},
			HelpSynopsis:    "List relayed transaction signatures",
			HelpDescription: "Lists the signatures of transactions relayed through tx/submit.",
		},
		{
			Pattern: "tx/submissions/" + framework.GenericNameRegex("signature"),
			Fields: map[string]*framework.FieldSchema{
				"signature": {
					Type:        framework.TypeString,
					Description: "Transaction signature",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathSubmissionRead,
					Summary:  "Read a relayed transaction record",
				},
			},
			HelpSynopsis:    "Read a relayed transaction record",
			HelpDescription: "Returns the record stored when the transaction was relayed.",
		},
	}
}

// loanInstruction builds the instruction variant named by instruction_type.
func loanInstruction(d *framework.FieldData) (ascendry.LoanInstructionRequest, error) {
	instructionType := d.Get("instruction_type").(string)
	if err := ValidateLoanInstructionType(instructionType); err != nil {
		return nil, err
	}

	base := ascendry.BaseLoanInstructionRequest{
		NftMintAddress: d.Get("nft_mint_address").(string),
		SignerAddress:  d.Get("signer_address").(string),
	}
	if err := ValidateAddress("nft_mint_address", base.NftMintAddress); err != nil {
		return nil, err
	}
	if err := ValidateAddress("signer_address", base.SignerAddress); err != nil {
		return nil, err
	}

	loanID := d.Get("loan_id").(string)
	requireLoanID := func() error {
		return ValidateID("loan_id", loanID)
	}

	switch ascendry.LoanInstructionType(instructionType) {
	case ascendry.LoanInstructionStakeNftForLoan:
		amount := d.Get("loan_amount_in_sol").(float64)
		interest := d.Get("loan_interest_in_sol").(float64)
		duration := d.Get("loan_duration_seconds").(int)
		if err := ValidatePositiveAmount("loan_amount_in_sol", amount); err != nil {
			return nil, err
		}
		if interest < 0 {
			return nil, fmt.Errorf("loan_interest_in_sol cannot be negative")
		}
		if err := ValidateLoanDuration(duration); err != nil {
			return nil, err
		}
		return &ascendry.StakeNftForLoanRequest{
			BaseLoanInstructionRequest: base,
			LoanAmountInSOL:            amount,
			LoanInterestInSOL:          interest,
			LoanDurationInSeconds:      int64(duration),
		}, nil
	case ascendry.LoanInstructionFundLoan:
		if err := requireLoanID(); err != nil {
			return nil, err
		}
		return &ascendry.FundLoanRequest{BaseLoanInstructionRequest: base, LoanID: loanID}, nil
	case ascendry.LoanInstructionRepayLoan:
		if err := requireLoanID(); err != nil {
			return nil, err
		}
		return &ascendry.RepayLoanRequest{BaseLoanInstructionRequest: base, LoanID: loanID}, nil
	case ascendry.LoanInstructionForecloseLoan:
		if err := requireLoanID(); err != nil {
			return nil, err
		}
		return &ascendry.ForecloseLoanRequest{BaseLoanInstructionRequest: base, LoanID: loanID}, nil
	default:
		return &ascendry.CancelLoanRequest{BaseLoanInstructionRequest: base}, nil
	}
}

// pathTxLoan handles POST /tx/loan
func (b *AscendryBackend) pathTxLoan(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	instruction, err := loanInstruction(d)
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GenerateUnsignedLoanTransaction(ctx, instruction)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"instruction_type":       string(instruction.InstructionType()),
			"serialized_transaction": result.SerializedTransaction,
			"loan_id":                result.LoanID,
		},
	}, nil
}

// pathTxRedemption handles POST /tx/redemption
func (b *AscendryBackend) pathTxRedemption(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	instructionType := d.Get("instruction_type").(string)
	if err := ValidateRedemptionInstructionType(instructionType); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	base := ascendry.BaseAssetRedemptionInstructionRequest{
		NftMintAddress: d.Get("nft_mint_address").(string),
		SignerAddress:  d.Get("signer_address").(string),
	}
	if err := ValidateAddress("nft_mint_address", base.NftMintAddress); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	if err := ValidateAddress("signer_address", base.SignerAddress); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	var instruction ascendry.AssetRedemptionInstructionRequest
	switch ascendry.AssetRedemptionInstructionType(instructionType) {
	case ascendry.AssetRedemptionInstructionRequestRedemption:
		fee := d.Get("redemption_fee_in_sol").(float64)
		if fee < 0 {
			return logical.ErrorResponse("redemption_fee_in_sol cannot be negative"), nil
		}
		instruction = &ascendry.RequestAssetRedemptionRequest{
			BaseAssetRedemptionInstructionRequest: base,
			RedemptionFeeInSOL:                    fee,
		}
	default:
		instruction = &ascendry.CancelAssetRedemptionRequest{BaseAssetRedemptionInstructionRequest: base}
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GenerateUnsignedAssetRedemptionTransaction(ctx, instruction)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"instruction_type":       instructionType,
			"serialized_transaction": result.SerializedTransaction,
		},
	}, nil
}

// pathTxMemo handles POST /tx/memo
func (b *AscendryBackend) pathTxMemo(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	memo := d.Get("memo").(string)
	signer := d.Get("signer_address").(string)
	if err := ValidateMemo(memo); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	if err := ValidateAddress("signer_address", signer); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	tx, err := client.GenerateMemoTransaction(ctx, &ascendry.GenerateMemoTransactionRequest{
		MemoMessage:   memo,
		SignerAddress: signer,
	})
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"serialized_transaction": tx,
		},
	}, nil
}

// pathTxSubmit handles POST /tx/submit
func (b *AscendryBackend) pathTxSubmit(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	serialized := d.Get("serialized_transaction").(string)
	if err := ValidateSerializedTransaction(serialized); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	signature, err := client.SubmitTransactionToRpc(ctx, serialized)
	if err != nil {
		return callResponse(err)
	}

	sub := &model.Submission{
		Signature:   signature,
		Kind:        d.Get("kind").(string),
		SubmittedAt: time.Now().UTC(),
	}
	if err := storage.New(req.Storage).SaveSubmission(ctx, sub); err != nil {
		// The transaction is already on its way; report the signature anyway.
		b.Logger().Warn("failed to record submission", "signature", signature, "error", err)
		resp := &logical.Response{Data: sub.ToResponseData()}
		resp.AddWarning("submission record not stored: " + err.Error())
		return resp, nil
	}

	b.Logger().Info("transaction relayed", "signature", signature, "kind", sub.Kind)

	return &logical.Response{
		Data: sub.ToResponseData(),
	}, nil
}

// pathSubmissionsList handles LIST /tx/submissions
func (b *AscendryBackend) pathSubmissionsList(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	signatures, err := storage.New(req.Storage).ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	return logical.ListResponse(signatures), nil
}

// pathSubmissionRead handles GET /tx/submissions/:signature
func (b *AscendryBackend) pathSubmissionRead(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	signature := d.Get("signature").(string)
	sub, err := storage.New(req.Storage).GetSubmission(ctx, signature)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return logical.ErrorResponse("submission not found"), nil
	}
	return &logical.Response{
		Data: sub.ToResponseData(),
	}, nil
}

const pathTxLoanHelpDescription = `
Builds an unsigned loan transaction for the wallet in signer_address.

Parameters per instruction_type:
- STAKE_NFT_FOR_LOAN: loan_amount_in_sol, loan_interest_in_sol, loan_duration_seconds
- FUND_LOAN, REPAY_LOAN, FORECLOSE_LOAN: loan_id
- CANCEL_LOAN: no extra parameters

The response carries the base64 transaction. Sign it outside this engine
and relay it with tx/submit.
`
