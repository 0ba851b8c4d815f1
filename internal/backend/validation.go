package backend

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"

	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

const (
	// MaxPaginationSize is the largest page size accepted by list paths.
	MaxPaginationSize = 100
	// MaxMemoLength is the maximum memo size in bytes.
	MaxMemoLength = 566
	// MaxTransactionSize is the maximum decoded transaction size (one packet).
	MaxTransactionSize = 1232
	// MaxLoanDuration is the longest loan duration in seconds (one year).
	MaxLoanDuration = 365 * 24 * 60 * 60
	// MaxIDLength is the maximum length for listing and loan IDs.
	MaxIDLength = 128
)

// addressPattern matches base58 account addresses.
var addressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// ValidateAddress validates an account or mint address.
func ValidateAddress(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !addressPattern.MatchString(addr) {
		return fmt.Errorf("%s is not a valid base58 address", field)
	}
	return nil
}

// idPattern allows alphanumeric, dot, underscore, and hyphen.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateID validates a listing or loan identifier.
func ValidateID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters: only alphanumeric, dot, underscore, and hyphen allowed", field)
	}
	return nil
}

// ValidatePaginationSize validates a page size. Zero leaves it to the server.
func ValidatePaginationSize(size int) error {
	if size < 0 || size > MaxPaginationSize {
		return fmt.Errorf("pagination_size must be between 0 and %d", MaxPaginationSize)
	}
	return nil
}

// ValidateLoanStatus validates an optional loan status filter.
func ValidateLoanStatus(status string) error {
	switch ascendry.LoanStatus(status) {
	case "", ascendry.LoanStatusPending, ascendry.LoanStatusActive, ascendry.LoanStatusRepaid,
		ascendry.LoanStatusCancelled, ascendry.LoanStatusForeclosed:
		return nil
	default:
		return fmt.Errorf("invalid status %q", status)
	}
}

// ValidateLoanInstructionType validates a loan instruction discriminant.
func ValidateLoanInstructionType(t string) error {
	switch ascendry.LoanInstructionType(t) {
	case ascendry.LoanInstructionStakeNftForLoan, ascendry.LoanInstructionFundLoan,
		ascendry.LoanInstructionRepayLoan, ascendry.LoanInstructionCancelLoan,
		ascendry.LoanInstructionForecloseLoan:
		return nil
	case "":
		return fmt.Errorf("instruction_type is required")
	default:
		return fmt.Errorf("invalid instruction_type %q", t)
	}
}

// ValidateRedemptionInstructionType validates a redemption instruction
// discriminant.
func ValidateRedemptionInstructionType(t string) error {
	switch ascendry.AssetRedemptionInstructionType(t) {
	case ascendry.AssetRedemptionInstructionRequestRedemption, ascendry.AssetRedemptionInstructionCancelRedemption:
		return nil
	case "":
		return fmt.Errorf("instruction_type is required")
	default:
		return fmt.Errorf("invalid instruction_type %q", t)
	}
}

// ValidatePositiveAmount validates a SOL amount.
func ValidatePositiveAmount(field string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%s must be positive", field)
	}
	return nil
}

// ValidateLoanDuration validates a loan duration in seconds.
func ValidateLoanDuration(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("loan_duration_seconds must be positive")
	}
	if seconds > MaxLoanDuration {
		return fmt.Errorf("loan_duration_seconds exceeds maximum of %d", MaxLoanDuration)
	}
	return nil
}

// ValidateMemo validates a memo message.
func ValidateMemo(memo string) error {
	if memo == "" {
		return fmt.Errorf("memo is required")
	}
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("memo exceeds maximum length of %d bytes", MaxMemoLength)
	}
	return nil
}

// ValidateSerializedTransaction validates a base64 signed transaction.
func ValidateSerializedTransaction(tx string) error {
	if tx == "" {
		return fmt.Errorf("serialized_transaction is required")
	}
	raw, err := base64.StdEncoding.DecodeString(tx)
	if err != nil {
		return fmt.Errorf("serialized_transaction is not valid base64")
	}
	if len(raw) > MaxTransactionSize {
		return fmt.Errorf("serialized_transaction exceeds maximum size of %d bytes", MaxTransactionSize)
	}
	return nil
}

// ValidateBaseURL validates an API base URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url is invalid: %v", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("base_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host")
	}
	return nil
}
