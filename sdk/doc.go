// Package ascendry provides a Go client SDK for the Ascendry vault API.
//
// The SDK offers a type-safe interface for every vault endpoint: NFT
// custody queries, collateralized loans, vendor marketplace listings and
// asset redemption workflows. Each method performs exactly one HTTP round
// trip; there are no retries and no caching.
//
// # Quick Start
//
//	client, err := ascendry.NewClient("my-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	nfts, err := client.GetVaultNfts(ctx, &ascendry.GetVaultNftsRequest{
//	    OwnerAddress:   "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
//	    PaginationSize: 20,
//	})
//
// # Paging
//
// List endpoints return an opaque LastEvaluatedKey. Pass it back unchanged
// in the next request to continue; an empty key means the last page.
//
//	req := &ascendry.GetLoansRequest{Status: ascendry.LoanStatusActive}
//	for {
//	    page, err := client.GetLoans(ctx, req)
//	    if err != nil {
//	        return err
//	    }
//	    handle(page.Loans)
//	    if page.LastEvaluatedKey == "" {
//	        break
//	    }
//	    req.LastEvaluatedKey = page.LastEvaluatedKey
//	}
//
// # Instructions
//
// Unsigned transactions are built server-side from an instruction variant.
// The SDK stamps the instruction type; callers sign the returned
// transaction themselves and submit it with SubmitTransactionToRpc.
//
//	tx, err := client.GenerateUnsignedLoanTransaction(ctx, &ascendry.StakeNftForLoanRequest{
//	    BaseLoanInstructionRequest: ascendry.BaseLoanInstructionRequest{
//	        NftMintAddress: mint,
//	        SignerAddress:  borrower,
//	    },
//	    LoanAmountInSOL:       10,
//	    LoanInterestInSOL:     0.5,
//	    LoanDurationInSeconds: 7 * 24 * 60 * 60,
//	})
package ascendry
