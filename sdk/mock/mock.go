// Package mock provides an in-memory ascendry.Client for tests and local
// development. It keeps NFTs, loans, vendors, listings and redemptions in
// maps and answers every call without network access.
package mock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

// Mock implements ascendry.Client in memory.
type Mock struct {
	mu          sync.RWMutex
	nfts        []ascendry.Nft
	history     map[string][]ascendry.NftHistoryEvent
	loans       []ascendry.Loan
	vendors     map[string]ascendry.GetVendorInfoResponse
	listings    []ascendry.VendorListing
	redemptions map[string]ascendry.GetAssetRedemptionInfoResponse
	submitted   []string
	failure     error
	now         func() time.Time
}

var _ ascendry.Client = (*Mock)(nil)

// Option configures the mock instance.
type Option func(*Mock)

// WithNfts seeds vaulted NFTs.
func WithNfts(nfts ...ascendry.Nft) Option {
	return func(m *Mock) {
		m.nfts = append(m.nfts, nfts...)
	}
}

// WithHistory seeds custody events for an NFT.
func WithHistory(mint string, events ...ascendry.NftHistoryEvent) Option {
	return func(m *Mock) {
		m.history[mint] = append(m.history[mint], events...)
	}
}

// WithLoans seeds loans.
func WithLoans(loans ...ascendry.Loan) Option {
	return func(m *Mock) {
		m.loans = append(m.loans, loans...)
	}
}

// WithVendors seeds vendor profiles keyed by vendor address.
func WithVendors(vendors ...ascendry.GetVendorInfoResponse) Option {
	return func(m *Mock) {
		for _, v := range vendors {
			m.vendors[v.VendorAddress] = v
		}
	}
}

// WithListings seeds marketplace listings.
func WithListings(listings ...ascendry.VendorListing) Option {
	return func(m *Mock) {
		m.listings = append(m.listings, listings...)
	}
}

// WithRedemptions seeds redemption records keyed by NFT mint.
func WithRedemptions(redemptions ...ascendry.GetAssetRedemptionInfoResponse) Option {
	return func(m *Mock) {
		for _, r := range redemptions {
			m.redemptions[r.NftMintAddress] = r
		}
	}
}

// WithFailure makes every call return err.
func WithFailure(err error) Option {
	return func(m *Mock) {
		m.failure = err
	}
}

// WithClock overrides the clock used for timestamps (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(m *Mock) {
		if fn != nil {
			m.now = fn
		}
	}
}

// New creates a mock client.
func New(opts ...Option) *Mock {
	m := &Mock{
		history:     make(map[string][]ascendry.NftHistoryEvent),
		vendors:     make(map[string]ascendry.GetVendorInfoResponse),
		redemptions: make(map[string]ascendry.GetAssetRedemptionInfoResponse),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submitted returns the serialized transactions passed to
// SubmitTransactionToRpc, in call order.
func (m *Mock) Submitted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.submitted...)
}

func (m *Mock) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failure
}

func notFound(format string, args ...any) error {
	return &ascendry.RemoteError{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf(format, args...),
	}
}

func badRequest(format string, args ...any) error {
	return &ascendry.RemoteError{
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf(format, args...),
	}
}

// page slices items using an offset cursor. The returned cursor is empty on
// the last page.
func page[T any](items []T, cursor string, size int) ([]T, string, error) {
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, "", badRequest("invalid lastEvaluatedKey %q", cursor)
		}
		start = n
	}
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if size > 0 && start+size < end {
		end = start + size
	}
	out := append([]T{}, items[start:end]...)
	if end < len(items) {
		return out, strconv.Itoa(end), nil
	}
	return out, "", nil
}

// unsignedTx renders a deterministic placeholder transaction for a payload.
func unsignedTx(payload any) string {
	data, _ := json.Marshal(payload)
	return base64.StdEncoding.EncodeToString(data)
}

func (m *Mock) SubmitTransactionToRpc(ctx context.Context, serializedTransaction string) (string, error) {
	if err := m.check(ctx); err != nil {
		return "", err
	}
	if _, err := base64.StdEncoding.DecodeString(serializedTransaction); err != nil || serializedTransaction == "" {
		return "", badRequest("serializedTransaction is not valid base64")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, serializedTransaction)
	return uuid.NewString(), nil
}

func (m *Mock) GetVaultNfts(ctx context.Context, req *ascendry.GetVaultNftsRequest) (*ascendry.GetNftsResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ascendry.GetVaultNftsRequest{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []ascendry.Nft
	for _, n := range m.nfts {
		if req.OwnerAddress == "" || n.Owner == req.OwnerAddress {
			matched = append(matched, n)
		}
	}
	items, next, err := page(matched, req.LastEvaluatedKey, req.PaginationSize)
	if err != nil {
		return nil, err
	}
	return &ascendry.GetNftsResponse{Nfts: items, LastEvaluatedKey: next}, nil
}

func (m *Mock) GetVaultNftsByMint(ctx context.Context, nftMintAddress string) (*ascendry.GetNftsResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := &ascendry.GetNftsResponse{Nfts: []ascendry.Nft{}}
	for _, n := range m.nfts {
		if n.Mint == nftMintAddress {
			resp.Nfts = append(resp.Nfts, n)
		}
	}
	return resp, nil
}

func (m *Mock) GetNftHistory(ctx context.Context, req *ascendry.GetNftHistoryRequest) (*ascendry.GetNftHistoryResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ascendry.GetNftHistoryRequest{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	items, next, err := page(m.history[req.NftMintAddress], req.LastEvaluatedKey, req.PaginationSize)
	if err != nil {
		return nil, err
	}
	return &ascendry.GetNftHistoryResponse{History: items, LastEvaluatedKey: next}, nil
}

func (m *Mock) GetLoansByNftMintAddress(ctx context.Context, nftMintAddress string) (*ascendry.GetLoansResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := &ascendry.GetLoansResponse{Loans: []ascendry.Loan{}}
	for _, l := range m.loans {
		if l.NftMintAddress == nftMintAddress {
			resp.Loans = append(resp.Loans, l)
		}
	}
	return resp, nil
}

func (m *Mock) GetLoans(ctx context.Context, req *ascendry.GetLoansRequest) (*ascendry.GetLoansResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ascendry.GetLoansRequest{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []ascendry.Loan
	for _, l := range m.loans {
		if req.Status == "" || l.Status == req.Status {
			matched = append(matched, l)
		}
	}
	items, next, err := page(matched, req.LastEvaluatedKey, req.PaginationSize)
	if err != nil {
		return nil, err
	}
	return &ascendry.GetLoansResponse{Loans: items, LastEvaluatedKey: next}, nil
}

func (m *Mock) GetAssetRedemptionInfo(ctx context.Context, nftMintAddress string) (*ascendry.GetAssetRedemptionInfoResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.redemptions[nftMintAddress]
	if !ok {
		return nil, notFound("no redemption for %s", nftMintAddress)
	}
	return &r, nil
}

func (m *Mock) GetVendorInfo(ctx context.Context, vendorAddress string) (*ascendry.GetVendorInfoResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vendors[vendorAddress]
	if !ok {
		return nil, notFound("vendor %s not found", vendorAddress)
	}
	return &v, nil
}

func (m *Mock) GetPresignedUrl(ctx context.Context, req *ascendry.GetPresignedVendorMediaFileUrlRequest) (*ascendry.GetPresignedVendorMediaFileUrlResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.VendorAddress == "" || req.FileName == "" {
		return nil, badRequest("vendorAddress and fileName are required")
	}
	key := "vendors/" + req.VendorAddress + "/" + uuid.NewString() + "-" + req.FileName
	return &ascendry.GetPresignedVendorMediaFileUrlResponse{
		PresignedURL:     "https://media.mock.invalid/upload/" + key,
		FileKey:          key,
		ExpiresInSeconds: 900,
	}, nil
}

func (m *Mock) GetPresignedUrlForViewing(ctx context.Context, fileKey string) (*ascendry.GetPresignedUrlForViewingResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if fileKey == "" {
		return nil, badRequest("fileKey is required")
	}
	return &ascendry.GetPresignedUrlForViewingResponse{
		PresignedURL:     "https://media.mock.invalid/view/" + fileKey,
		ExpiresInSeconds: 900,
	}, nil
}

func (m *Mock) CreateVendorListing(ctx context.Context, req *ascendry.UploadVendorListingRequest) (*ascendry.UploadVendorListingResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.VendorAddress == "" || req.Title == "" {
		return nil, badRequest("vendorAddress and title are required")
	}
	if req.PriceInSOL <= 0 {
		return nil, badRequest("priceInSOL must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	listing := ascendry.VendorListing{
		ListingID:     uuid.NewString(),
		VendorAddress: req.VendorAddress,
		Title:         req.Title,
		Description:   req.Description,
		ListingType:   req.ListingType,
		PriceInSOL:    req.PriceInSOL,
		MediaFileKeys: append([]string(nil), req.MediaFileKeys...),
		Category:      req.Category,
		Attributes:    req.Attributes,
		Status:        ascendry.ListingStatusActive,
		CreatedAtMs:   m.now().UnixMilli(),
	}
	m.listings = append(m.listings, listing)
	return &ascendry.UploadVendorListingResponse{Success: true, Listing: listing}, nil
}

func (m *Mock) GetVendorListings(ctx context.Context, vendorAddress string) (*ascendry.GetVendorListingsResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := &ascendry.GetVendorListingsResponse{Listings: []ascendry.VendorListing{}}
	for _, l := range m.listings {
		if l.VendorAddress == vendorAddress {
			resp.Listings = append(resp.Listings, l)
		}
	}
	sort.SliceStable(resp.Listings, func(i, j int) bool {
		return resp.Listings[i].CreatedAtMs > resp.Listings[j].CreatedAtMs
	})
	return resp, nil
}

func (m *Mock) GetVendorListingById(ctx context.Context, listingID string) (*ascendry.GetVendorListingByIdResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.listings {
		if l.ListingID == listingID {
			return &ascendry.GetVendorListingByIdResponse{Listing: l}, nil
		}
	}
	return nil, notFound("listing %s not found", listingID)
}

func (m *Mock) CancelVendorListing(ctx context.Context, req *ascendry.CancelVendorListingRequest) (*ascendry.CancelVendorListingResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.ListingID == "" {
		return nil, badRequest("listingId is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.listings {
		l := &m.listings[i]
		if l.ListingID != req.ListingID {
			continue
		}
		if req.VendorAddress != "" && l.VendorAddress != req.VendorAddress {
			return nil, &ascendry.RemoteError{
				StatusCode: http.StatusForbidden,
				Message:    "listing belongs to another vendor",
			}
		}
		l.Status = ascendry.ListingStatusCancelled
		return &ascendry.CancelVendorListingResponse{Success: true}, nil
	}
	return nil, notFound("listing %s not found", req.ListingID)
}

func (m *Mock) GenerateUnsignedLoanTransaction(ctx context.Context, req ascendry.LoanInstructionRequest) (*ascendry.LoanTransactionResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, badRequest("instruction is required")
	}

	resp := &ascendry.LoanTransactionResponse{}
	switch r := req.(type) {
	case *ascendry.StakeNftForLoanRequest:
		if r.LoanAmountInSOL <= 0 || r.LoanDurationInSeconds <= 0 {
			return nil, badRequest("loan amount and duration must be positive")
		}
		if !m.hasNft(r.NftMintAddress) {
			return nil, notFound("nft %s not found", r.NftMintAddress)
		}
		resp.LoanID = uuid.NewString()
		m.mu.Lock()
		m.loans = append(m.loans, ascendry.Loan{
			LoanID:                resp.LoanID,
			NftMintAddress:        r.NftMintAddress,
			BorrowerAddress:       r.SignerAddress,
			LoanAmountInSOL:       r.LoanAmountInSOL,
			LoanInterestInSOL:     r.LoanInterestInSOL,
			LoanDurationInSeconds: r.LoanDurationInSeconds,
			Status:                ascendry.LoanStatusPending,
			CreatedAtMs:           m.now().UnixMilli(),
		})
		m.mu.Unlock()
	case *ascendry.FundLoanRequest:
		resp.LoanID = r.LoanID
	case *ascendry.RepayLoanRequest:
		resp.LoanID = r.LoanID
	case *ascendry.ForecloseLoanRequest:
		resp.LoanID = r.LoanID
	case *ascendry.CancelLoanRequest:
	default:
		return nil, badRequest("unsupported instruction %q", req.InstructionType())
	}
	if resp.LoanID != "" && req.InstructionType() != ascendry.LoanInstructionStakeNftForLoan && !m.hasLoan(resp.LoanID) {
		return nil, notFound("loan %s not found", resp.LoanID)
	}

	resp.SerializedTransaction = unsignedTx(map[string]any{
		"instructionType": req.InstructionType(),
		"instruction":     req,
	})
	return resp, nil
}

func (m *Mock) GenerateUnsignedAssetRedemptionTransaction(ctx context.Context, req ascendry.AssetRedemptionInstructionRequest) (*ascendry.AssetRedemptionTransactionResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, badRequest("instruction is required")
	}
	switch r := req.(type) {
	case *ascendry.RequestAssetRedemptionRequest:
		if !m.hasNft(r.NftMintAddress) {
			return nil, notFound("nft %s not found", r.NftMintAddress)
		}
	case *ascendry.CancelAssetRedemptionRequest:
	default:
		return nil, badRequest("unsupported instruction %q", req.InstructionType())
	}
	return &ascendry.AssetRedemptionTransactionResponse{
		SerializedTransaction: unsignedTx(map[string]any{
			"instructionType": req.InstructionType(),
			"instruction":     req,
		}),
	}, nil
}

func (m *Mock) GenerateMemoTransaction(ctx context.Context, req *ascendry.GenerateMemoTransactionRequest) (string, error) {
	if err := m.check(ctx); err != nil {
		return "", err
	}
	if req == nil || req.SignerAddress == "" {
		return "", badRequest("signerAddress is required")
	}
	return unsignedTx(req), nil
}

func (m *Mock) SubmitAssetRedemptionRequest(ctx context.Context, req *ascendry.SubmitAssetRedemptionRequest) (*ascendry.SubmitAssetRedemptionResponse, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if req == nil || req.NftMintAddress == "" {
		return nil, badRequest("nftMintAddress is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UnixMilli()
	r := ascendry.GetAssetRedemptionInfoResponse{
		RedemptionID:   uuid.NewString(),
		NftMintAddress: req.NftMintAddress,
		OwnerAddress:   req.OwnerAddress,
		Status:         ascendry.RedemptionStatusRequested,
		RequestedAtMs:  now,
		UpdatedAtMs:    now,
	}
	m.redemptions[req.NftMintAddress] = r
	return &ascendry.SubmitAssetRedemptionResponse{
		Success:      true,
		RedemptionID: r.RedemptionID,
		Status:       r.Status,
	}, nil
}

func (m *Mock) hasNft(mint string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.nfts {
		if n.Mint == mint {
			return true
		}
	}
	return false
}

func (m *Mock) hasLoan(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.loans {
		if l.LoanID == id {
			return true
		}
	}
	return false
}
