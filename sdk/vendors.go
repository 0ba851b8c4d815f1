package ascendry

// GetVendorInfoResponse is the public profile of a vendor.
type GetVendorInfoResponse struct {
	VendorAddress string `json:"vendorAddress"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	LogoFileKey   string `json:"logoFileKey,omitempty"`
	Website       string `json:"website,omitempty"`
	Verified      bool   `json:"verified"`
	CreatedAtMs   int64  `json:"createdAt,omitempty"`
}

// GetPresignedVendorMediaFileUrlRequest asks for an upload URL for a
// vendor media file.
type GetPresignedVendorMediaFileUrlRequest struct {
	VendorAddress string `json:"vendorAddress"`
	FileName      string `json:"fileName"`
	ContentType   string `json:"contentType"`
}

// GetPresignedVendorMediaFileUrlResponse contains a time-limited upload URL.
// The expiry is enforced by the storage service, not by the SDK.
type GetPresignedVendorMediaFileUrlResponse struct {
	PresignedURL string `json:"presignedUrl"`

	// FileKey identifies the uploaded object in later listing requests.
	FileKey string `json:"fileKey"`

	ExpiresInSeconds int64 `json:"expiresIn,omitempty"`
}

// GetPresignedUrlForViewingResponse contains a time-limited viewing URL.
type GetPresignedUrlForViewingResponse struct {
	PresignedURL     string `json:"presignedUrl"`
	ExpiresInSeconds int64  `json:"expiresIn,omitempty"`
}

// ListingType is the kind of marketplace listing.
type ListingType string

const (
	ListingTypeSale  ListingType = "SALE"
	ListingTypeLease ListingType = "LEASE"
)

// ListingStatus is the state of a marketplace listing.
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "ACTIVE"
	ListingStatusSold      ListingStatus = "SOLD"
	ListingStatusCancelled ListingStatus = "CANCELLED"
)

// VendorListing is a marketplace entry created by a vendor.
type VendorListing struct {
	ListingID     string            `json:"listingId"`
	VendorAddress string            `json:"vendorAddress"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	ListingType   ListingType       `json:"listingType,omitempty"`
	PriceInSOL    float64           `json:"priceInSOL"`
	MediaFileKeys []string          `json:"mediaFileKeys,omitempty"`
	Category      string            `json:"category,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Status        ListingStatus     `json:"status,omitempty"`
	CreatedAtMs   int64             `json:"createdAt,omitempty"`
}

// UploadVendorListingRequest contains the parameters for creating a listing.
type UploadVendorListingRequest struct {
	VendorAddress string            `json:"vendorAddress"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	ListingType   ListingType       `json:"listingType,omitempty"`
	PriceInSOL    float64           `json:"priceInSOL"`
	MediaFileKeys []string          `json:"mediaFileKeys,omitempty"`
	Category      string            `json:"category,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// UploadVendorListingResponse is the result of creating a listing.
type UploadVendorListingResponse struct {
	Success bool          `json:"success"`
	Listing VendorListing `json:"listing"`
}

// GetVendorListingsResponse contains the listings of a vendor.
type GetVendorListingsResponse struct {
	Listings         []VendorListing `json:"listings"`
	LastEvaluatedKey string          `json:"lastEvaluatedKey,omitempty"`
}

// GetVendorListingByIdResponse contains a single listing.
type GetVendorListingByIdResponse struct {
	Listing VendorListing `json:"listing"`
}

// CancelVendorListingRequest identifies the listing to cancel.
type CancelVendorListingRequest struct {
	ListingID     string `json:"listingId"`
	VendorAddress string `json:"vendorAddress,omitempty"`
}

// CancelVendorListingResponse is the result of cancelling a listing.
type CancelVendorListingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
