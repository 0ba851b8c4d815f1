package ascendry

// NftStatus is the custody state of a vaulted NFT.
type NftStatus string

const (
	NftStatusVaulted   NftStatus = "VAULTED"
	NftStatusStaked    NftStatus = "STAKED"
	NftStatusRedeeming NftStatus = "REDEEMING"
	NftStatusRedeemed  NftStatus = "REDEEMED"
)

// Nft is an NFT held in custody by the vault.
type Nft struct {
	// Mint is the NFT mint address.
	Mint string `json:"mint"`

	// Owner is the current owner address.
	Owner string `json:"owner"`

	Name          string         `json:"name,omitempty"`
	Symbol        string         `json:"symbol,omitempty"`
	URI           string         `json:"uri,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Collection    string         `json:"collection,omitempty"`
	Status        NftStatus      `json:"status,omitempty"`
	Attributes    []NftAttribute `json:"attributes,omitempty"`
	VendorAddress string         `json:"vendorAddress,omitempty"`
	ValueInSOL    float64        `json:"valueInSOL,omitempty"`

	// VaultedAtMs is the custody start time in Unix milliseconds.
	VaultedAtMs int64 `json:"vaultedAt,omitempty"`
}

// NftAttribute is one metadata trait of an NFT.
type NftAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// GetVaultNftsRequest contains the parameters for listing vaulted NFTs.
type GetVaultNftsRequest struct {
	// OwnerAddress filters by owner. When empty the parameter is omitted
	// and the server applies its own default.
	OwnerAddress string

	// LastEvaluatedKey is the cursor returned by the previous page.
	LastEvaluatedKey string

	// PaginationSize is the page size. Zero leaves it to the server.
	PaginationSize int
}

// GetNftsResponse is a page of vaulted NFTs.
type GetNftsResponse struct {
	Nfts []Nft `json:"nfts"`

	// LastEvaluatedKey is empty on the last page.
	LastEvaluatedKey string `json:"lastEvaluatedKey,omitempty"`
}

// NftHistoryEvent is one custody event of an NFT.
type NftHistoryEvent struct {
	Mint                 string `json:"mint"`
	EventType            string `json:"eventType"`
	TransactionSignature string `json:"transactionSignature,omitempty"`
	FromAddress          string `json:"fromAddress,omitempty"`
	ToAddress            string `json:"toAddress,omitempty"`
	TimestampMs          int64  `json:"timestamp"`
}

// GetNftHistoryRequest contains the parameters for reading NFT history.
type GetNftHistoryRequest struct {
	NftMintAddress   string
	LastEvaluatedKey string
	PaginationSize   int
}

// GetNftHistoryResponse is a page of NFT history events.
type GetNftHistoryResponse struct {
	History          []NftHistoryEvent `json:"history"`
	LastEvaluatedKey string            `json:"lastEvaluatedKey,omitempty"`
}
