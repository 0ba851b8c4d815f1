package ascendry

import "context"

// Client defines the interface for interacting with the Ascendry vault API.
type Client interface {
	// SubmitTransactionToRpc submits a base64-encoded signed transaction
	// and returns its signature.
	SubmitTransactionToRpc(ctx context.Context, serializedTransaction string) (string, error)

	// GetVaultNfts lists vaulted NFTs, optionally filtered by owner.
	GetVaultNfts(ctx context.Context, req *GetVaultNftsRequest) (*GetNftsResponse, error)

	// GetVaultNftsByMint returns the vaulted NFTs for a mint address.
	GetVaultNftsByMint(ctx context.Context, nftMintAddress string) (*GetNftsResponse, error)

	// GetNftHistory returns the custody history of an NFT.
	GetNftHistory(ctx context.Context, req *GetNftHistoryRequest) (*GetNftHistoryResponse, error)

	// GetLoansByNftMintAddress returns the loans collateralized by an NFT.
	GetLoansByNftMintAddress(ctx context.Context, nftMintAddress string) (*GetLoansResponse, error)

	// GetLoans lists loans, optionally filtered by status.
	GetLoans(ctx context.Context, req *GetLoansRequest) (*GetLoansResponse, error)

	// GetAssetRedemptionInfo returns the redemption state of an NFT.
	GetAssetRedemptionInfo(ctx context.Context, nftMintAddress string) (*GetAssetRedemptionInfoResponse, error)

	// GetVendorInfo returns the profile of a vendor.
	GetVendorInfo(ctx context.Context, vendorAddress string) (*GetVendorInfoResponse, error)

	// GetPresignedUrl returns a time-limited URL for uploading vendor media.
	GetPresignedUrl(ctx context.Context, req *GetPresignedVendorMediaFileUrlRequest) (*GetPresignedVendorMediaFileUrlResponse, error)

	// GetPresignedUrlForViewing returns a time-limited URL for viewing vendor media.
	GetPresignedUrlForViewing(ctx context.Context, fileKey string) (*GetPresignedUrlForViewingResponse, error)

	// CreateVendorListing creates a marketplace listing.
	CreateVendorListing(ctx context.Context, req *UploadVendorListingRequest) (*UploadVendorListingResponse, error)

	// GetVendorListings returns the listings of a vendor.
	GetVendorListings(ctx context.Context, vendorAddress string) (*GetVendorListingsResponse, error)

	// GetVendorListingById returns a single listing.
	GetVendorListingById(ctx context.Context, listingID string) (*GetVendorListingByIdResponse, error)

	// CancelVendorListing cancels a marketplace listing.
	CancelVendorListing(ctx context.Context, req *CancelVendorListingRequest) (*CancelVendorListingResponse, error)

	// GenerateUnsignedLoanTransaction builds an unsigned loan transaction.
	GenerateUnsignedLoanTransaction(ctx context.Context, req LoanInstructionRequest) (*LoanTransactionResponse, error)

	// GenerateUnsignedAssetRedemptionTransaction builds an unsigned asset
	// redemption transaction.
	GenerateUnsignedAssetRedemptionTransaction(ctx context.Context, req AssetRedemptionInstructionRequest) (*AssetRedemptionTransactionResponse, error)

	// GenerateMemoTransaction builds an unsigned memo-only transaction and
	// returns it serialized.
	GenerateMemoTransaction(ctx context.Context, req *GenerateMemoTransactionRequest) (string, error)

	// SubmitAssetRedemptionRequest submits a redemption workflow request.
	SubmitAssetRedemptionRequest(ctx context.Context, req *SubmitAssetRedemptionRequest) (*SubmitAssetRedemptionResponse, error)
}
