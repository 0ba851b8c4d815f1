package ascendry

// RedemptionStatus is the state of an asset redemption workflow.
type RedemptionStatus string

const (
	RedemptionStatusRequested RedemptionStatus = "REQUESTED"
	RedemptionStatusApproved  RedemptionStatus = "APPROVED"
	RedemptionStatusShipped   RedemptionStatus = "SHIPPED"
	RedemptionStatusCompleted RedemptionStatus = "COMPLETED"
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// ShippingAddress is the physical delivery address of a redeemed asset.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// SubmitAssetRedemptionRequest opens the off-chain side of a redemption
// once the redemption transaction has landed.
type SubmitAssetRedemptionRequest struct {
	NftMintAddress       string          `json:"nftMintAddress"`
	OwnerAddress         string          `json:"ownerAddress"`
	TransactionSignature string          `json:"transactionSignature"`
	Email                string          `json:"email"`
	ShippingAddress      ShippingAddress `json:"shippingAddress"`
}

// SubmitAssetRedemptionResponse is the result of a redemption submission.
type SubmitAssetRedemptionResponse struct {
	Success      bool             `json:"success"`
	RedemptionID string           `json:"redemptionId,omitempty"`
	Status       RedemptionStatus `json:"status,omitempty"`
}

// GetAssetRedemptionInfoResponse describes the redemption state of an NFT.
type GetAssetRedemptionInfoResponse struct {
	RedemptionID   string           `json:"redemptionId"`
	NftMintAddress string           `json:"nftMintAddress"`
	OwnerAddress   string           `json:"ownerAddress"`
	Status         RedemptionStatus `json:"status"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
	Carrier        string           `json:"carrier,omitempty"`
	RequestedAtMs  int64            `json:"requestedAt,omitempty"`
	UpdatedAtMs    int64            `json:"updatedAt,omitempty"`
}

// AssetRedemptionInstructionType discriminates redemption instruction
// variants.
type AssetRedemptionInstructionType string

const (
	AssetRedemptionInstructionRequestRedemption AssetRedemptionInstructionType = "REQUEST_ASSET_REDEMPTION"
	AssetRedemptionInstructionCancelRedemption  AssetRedemptionInstructionType = "CANCEL_ASSET_REDEMPTION"
)

// AssetRedemptionInstructionRequest is implemented by every redemption
// instruction variant.
type AssetRedemptionInstructionRequest interface {
	InstructionType() AssetRedemptionInstructionType
	isAssetRedemptionInstruction()
}

// BaseAssetRedemptionInstructionRequest holds the fields shared by all
// redemption instructions.
type BaseAssetRedemptionInstructionRequest struct {
	NftMintAddress string `json:"nftMintAddress"`
	SignerAddress  string `json:"signerAddress"`
}

func (*BaseAssetRedemptionInstructionRequest) isAssetRedemptionInstruction() {}

// RequestAssetRedemptionRequest locks a vaulted NFT for redemption.
type RequestAssetRedemptionRequest struct {
	BaseAssetRedemptionInstructionRequest
	RedemptionFeeInSOL float64 `json:"redemptionFeeInSOL"`
}

func (*RequestAssetRedemptionRequest) InstructionType() AssetRedemptionInstructionType {
	return AssetRedemptionInstructionRequestRedemption
}

// CancelAssetRedemptionRequest releases an NFT from a pending redemption.
type CancelAssetRedemptionRequest struct {
	BaseAssetRedemptionInstructionRequest
}

func (*CancelAssetRedemptionRequest) InstructionType() AssetRedemptionInstructionType {
	return AssetRedemptionInstructionCancelRedemption
}

// AssetRedemptionTransactionResponse contains an unsigned redemption
// transaction.
type AssetRedemptionTransactionResponse struct {
	SerializedTransaction string `json:"serializedTransaction"`
}
