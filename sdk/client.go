package ascendry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the production Ascendry API address.
	DefaultBaseURL = "https://api.ascendry.io"

	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-Api-Key"

	// RequestIDHeader carries a per-call UUID for server-side correlation.
	RequestIDHeader = "X-Request-Id"

	defaultUserAgent = "ascendry-go-sdk"
	tracerName       = "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"

	// maxErrorMessageLen bounds the message taken from non-JSON error bodies.
	maxErrorMessageLen = 256
)

// httpClient is the concrete implementation of the Client interface.
type httpClient struct {
	addr       string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     hclog.Logger
	tracer     trace.Tracer
}

// Compile-time check that httpClient implements Client.
var _ Client = (*httpClient)(nil)

// NewClient creates a new Ascendry API client.
//
// apiKey is sent unchanged with every request. It is not validated
// locally; an invalid key surfaces as a RemoteError from the server.
func NewClient(apiKey string, opts ...Option) (Client, error) {
	cfg := &options{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("ascendry: option error: %w", err)
		}
	}

	c := &httpClient{
		addr:      DefaultBaseURL,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: hclog.NewNullLogger(),
	}

	if cfg.baseURL != "" {
		c.addr = cfg.baseURL
	}
	c.addr = strings.TrimRight(c.addr, "/")

	if cfg.userAgent != "" {
		c.userAgent = cfg.userAgent
	}
	if cfg.logger != nil {
		c.logger = cfg.logger.Named("ascendry")
	}

	tp := cfg.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer(tracerName)

	if cfg.httpClient != nil {
		c.httpClient = cfg.httpClient
	} else {
		if cfg.timeout > 0 {
			c.httpClient.Timeout = cfg.timeout
		}
		if cfg.tlsConfig != nil {
			c.httpClient.Transport = &http.Transport{
				TLSClientConfig: cfg.tlsConfig,
			}
		}
	}

	return c, nil
}

// SubmitTransactionToRpc submits a base64-encoded signed transaction.
func (c *httpClient) SubmitTransactionToRpc(ctx context.Context, serializedTransaction string) (string, error) {
	var raw json.RawMessage
	err := c.call(ctx, "SubmitTransactionToRpc", http.MethodPost, "/rpc/transactions", nil,
		&submitTransactionRequest{SerializedTransaction: serializedTransaction}, &raw)
	if err != nil {
		return "", err
	}
	return decodeString(raw, "signature")
}

// GetVaultNfts lists vaulted NFTs.
func (c *httpClient) GetVaultNfts(ctx context.Context, req *GetVaultNftsRequest) (*GetNftsResponse, error) {
	if req == nil {
		req = &GetVaultNftsRequest{}
	}
	q := pageQuery(req.LastEvaluatedKey, req.PaginationSize)
	if req.OwnerAddress != "" {
		q.Set("ownerAddress", req.OwnerAddress)
	}

	var result GetNftsResponse
	if err := c.call(ctx, "GetVaultNfts", http.MethodGet, "/nfts", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVaultNftsByMint returns the vaulted NFTs for a mint address.
func (c *httpClient) GetVaultNftsByMint(ctx context.Context, nftMintAddress string) (*GetNftsResponse, error) {
	var result GetNftsResponse
	path := "/nfts/mint/" + url.PathEscape(nftMintAddress)
	if err := c.call(ctx, "GetVaultNftsByMint", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetNftHistory returns the custody history of an NFT.
func (c *httpClient) GetNftHistory(ctx context.Context, req *GetNftHistoryRequest) (*GetNftHistoryResponse, error) {
	if req == nil {
		req = &GetNftHistoryRequest{}
	}
	var result GetNftHistoryResponse
	path := "/nfts/" + url.PathEscape(req.NftMintAddress) + "/history"
	q := pageQuery(req.LastEvaluatedKey, req.PaginationSize)
	if err := c.call(ctx, "GetNftHistory", http.MethodGet, path, q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLoansByNftMintAddress returns the loans collateralized by an NFT.
func (c *httpClient) GetLoansByNftMintAddress(ctx context.Context, nftMintAddress string) (*GetLoansResponse, error) {
	var result GetLoansResponse
	path := "/loans/nft/" + url.PathEscape(nftMintAddress)
	if err := c.call(ctx, "GetLoansByNftMintAddress", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLoans lists loans.
func (c *httpClient) GetLoans(ctx context.Context, req *GetLoansRequest) (*GetLoansResponse, error) {
	if req == nil {
		req = &GetLoansRequest{}
	}
	q := pageQuery(req.LastEvaluatedKey, req.PaginationSize)
	if req.Status != "" {
		q.Set("status", string(req.Status))
	}

	var result GetLoansResponse
	if err := c.call(ctx, "GetLoans", http.MethodGet, "/loans", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAssetRedemptionInfo returns the redemption state of an NFT.
func (c *httpClient) GetAssetRedemptionInfo(ctx context.Context, nftMintAddress string) (*GetAssetRedemptionInfoResponse, error) {
	var result GetAssetRedemptionInfoResponse
	path := "/asset-redemptions/" + url.PathEscape(nftMintAddress)
	if err := c.call(ctx, "GetAssetRedemptionInfo", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVendorInfo returns the profile of a vendor.
func (c *httpClient) GetVendorInfo(ctx context.Context, vendorAddress string) (*GetVendorInfoResponse, error) {
	var result GetVendorInfoResponse
	path := "/vendors/" + url.PathEscape(vendorAddress)
	if err := c.call(ctx, "GetVendorInfo", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPresignedUrl returns a time-limited upload URL for vendor media.
func (c *httpClient) GetPresignedUrl(ctx context.Context, req *GetPresignedVendorMediaFileUrlRequest) (*GetPresignedVendorMediaFileUrlResponse, error) {
	var result GetPresignedVendorMediaFileUrlResponse
	if err := c.call(ctx, "GetPresignedUrl", http.MethodPost, "/vendors/media/presigned-url", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPresignedUrlForViewing returns a time-limited viewing URL for vendor media.
func (c *httpClient) GetPresignedUrlForViewing(ctx context.Context, fileKey string) (*GetPresignedUrlForViewingResponse, error) {
	var result GetPresignedUrlForViewingResponse
	q := url.Values{"fileKey": []string{fileKey}}
	if err := c.call(ctx, "GetPresignedUrlForViewing", http.MethodGet, "/vendors/media/presigned-url", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateVendorListing creates a marketplace listing.
func (c *httpClient) CreateVendorListing(ctx context.Context, req *UploadVendorListingRequest) (*UploadVendorListingResponse, error) {
	var result UploadVendorListingResponse
	if err := c.call(ctx, "CreateVendorListing", http.MethodPost, "/vendors/listings", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVendorListings returns the listings of a vendor.
func (c *httpClient) GetVendorListings(ctx context.Context, vendorAddress string) (*GetVendorListingsResponse, error) {
	var result GetVendorListingsResponse
	path := "/vendors/" + url.PathEscape(vendorAddress) + "/listings"
	if err := c.call(ctx, "GetVendorListings", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVendorListingById returns a single listing.
func (c *httpClient) GetVendorListingById(ctx context.Context, listingID string) (*GetVendorListingByIdResponse, error) {
	var result GetVendorListingByIdResponse
	path := "/vendors/listings/" + url.PathEscape(listingID)
	if err := c.call(ctx, "GetVendorListingById", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelVendorListing cancels a marketplace listing.
func (c *httpClient) CancelVendorListing(ctx context.Context, req *CancelVendorListingRequest) (*CancelVendorListingResponse, error) {
	var result CancelVendorListingResponse
	if err := c.call(ctx, "CancelVendorListing", http.MethodPost, "/vendors/listings/cancel", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateUnsignedLoanTransaction builds an unsigned loan transaction.
func (c *httpClient) GenerateUnsignedLoanTransaction(ctx context.Context, req LoanInstructionRequest) (*LoanTransactionResponse, error) {
	if req == nil {
		return nil, errors.New("ascendry: loan instruction request is nil")
	}
	body, mint, err := encodeInstruction(string(req.InstructionType()), req)
	if err != nil {
		return nil, err
	}

	var result LoanTransactionResponse
	err = c.call(ctx, "GenerateUnsignedLoanTransaction", http.MethodPost, "/transactions/loan", nil, body, &result,
		attribute.String("ascendry.instruction_type", string(req.InstructionType())),
		attribute.String("ascendry.nft_mint", mint))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateUnsignedAssetRedemptionTransaction builds an unsigned asset
// redemption transaction.
func (c *httpClient) GenerateUnsignedAssetRedemptionTransaction(ctx context.Context, req AssetRedemptionInstructionRequest) (*AssetRedemptionTransactionResponse, error) {
	if req == nil {
		return nil, errors.New("ascendry: asset redemption instruction request is nil")
	}
	body, mint, err := encodeInstruction(string(req.InstructionType()), req)
	if err != nil {
		return nil, err
	}

	var result AssetRedemptionTransactionResponse
	err = c.call(ctx, "GenerateUnsignedAssetRedemptionTransaction", http.MethodPost, "/transactions/asset-redemption", nil, body, &result,
		attribute.String("ascendry.instruction_type", string(req.InstructionType())),
		attribute.String("ascendry.nft_mint", mint))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateMemoTransaction builds an unsigned memo-only transaction.
func (c *httpClient) GenerateMemoTransaction(ctx context.Context, req *GenerateMemoTransactionRequest) (string, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "GenerateMemoTransaction", http.MethodPost, "/transactions/memo", nil, req, &raw); err != nil {
		return "", err
	}
	return decodeString(raw, "serializedTransaction")
}

// SubmitAssetRedemptionRequest submits a redemption workflow request.
func (c *httpClient) SubmitAssetRedemptionRequest(ctx context.Context, req *SubmitAssetRedemptionRequest) (*SubmitAssetRedemptionResponse, error) {
	var result SubmitAssetRedemptionResponse
	if err := c.call(ctx, "SubmitAssetRedemptionRequest", http.MethodPost, "/asset-redemptions", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// call performs one round trip inside a client span and decodes the
// response into v.
func (c *httpClient) call(ctx context.Context, op, method, path string, query url.Values, body, v any, attrs ...attribute.KeyValue) (err error) {
	ctx, span := c.tracer.Start(ctx, "ascendry."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
		trace.WithAttributes(attrs...),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.do(ctx, method, path, query, body, requestID)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "path", path,
			"request_id", requestID, "error", err)
		return fmt.Errorf("ascendry: %s %s: %w", method, path, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("request completed", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", requestID, "duration", time.Since(start))

	return c.parseResponse(resp, requestID, v)
}

// do executes an HTTP request with the API key header.
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body any, requestID string) (*http.Response, error) {
	u := c.addr + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return c.httpClient.Do(req)
}

// parseResponse reads the HTTP response body, checks the status and
// unmarshals the payload into v.
func (c *httpClient) parseResponse(resp *http.Response, requestID string, v any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRemoteError(resp.StatusCode, requestID, body)
	}

	if v == nil {
		return nil
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New("failed to parse response: empty body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func newRemoteError(status int, requestID string, body []byte) *RemoteError {
	remoteErr := &RemoteError{
		StatusCode: status,
		RequestID:  requestID,
		Body:       body,
	}

	var envelope struct {
		Message string   `json:"message"`
		Error   string   `json:"error"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Plain text from a proxy, or a JSON value that is not an object.
		var msg string
		if json.Unmarshal(body, &msg) != nil {
			msg = string(body)
		}
		remoteErr.Message = truncate(strings.TrimSpace(msg), maxErrorMessageLen)
		return remoteErr
	}

	remoteErr.Message = envelope.Message
	if remoteErr.Message == "" {
		remoteErr.Message = envelope.Error
	}
	remoteErr.Errors = envelope.Errors
	return remoteErr
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func pageQuery(lastEvaluatedKey string, paginationSize int) url.Values {
	q := url.Values{}
	if lastEvaluatedKey != "" {
		q.Set("lastEvaluatedKey", lastEvaluatedKey)
	}
	if paginationSize > 0 {
		q.Set("paginationSize", strconv.Itoa(paginationSize))
	}
	return q
}

// encodeInstruction encodes an instruction variant with its discriminant
// injected as "instructionType" and reports the target mint address.
func encodeInstruction(instructionType string, req any) (json.RawMessage, string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal instruction: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, "", fmt.Errorf("failed to marshal instruction: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	var mint string
	if raw, ok := fields["nftMintAddress"]; ok {
		_ = json.Unmarshal(raw, &mint)
	}

	tag, err := json.Marshal(instructionType)
	if err != nil {
		return nil, "", err
	}
	fields["instructionType"] = tag

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal instruction: %w", err)
	}
	return body, mint, nil
}

// decodeString accepts either a bare JSON string or an object carrying
// the value under field.
func decodeString(raw json.RawMessage, field string) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", errors.New("failed to parse response: empty string")
		}
		return s, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	value, ok := obj[field]
	if !ok {
		return "", fmt.Errorf("failed to parse response: missing %q", field)
	}
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("failed to parse response field %q: %w", field, err)
	}
	if s == "" {
		return "", fmt.Errorf("failed to parse response: empty %q", field)
	}
	return s, nil
}
