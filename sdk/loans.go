package ascendry

// LoanStatus is the lifecycle state of a loan as reported by the server.
type LoanStatus string

const (
	LoanStatusPending    LoanStatus = "PENDING"
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusRepaid     LoanStatus = "REPAID"
	LoanStatusCancelled  LoanStatus = "CANCELLED"
	LoanStatusForeclosed LoanStatus = "FORECLOSED"
)

// Loan is a loan collateralized by a vaulted NFT.
type Loan struct {
	LoanID                string     `json:"loanId"`
	NftMintAddress        string     `json:"nftMintAddress"`
	BorrowerAddress       string     `json:"borrowerAddress"`
	LenderAddress         string     `json:"lenderAddress,omitempty"`
	LoanAmountInSOL       float64    `json:"loanAmountInSOL"`
	LoanInterestInSOL     float64    `json:"loanInterestInSOL"`
	LoanDurationInSeconds int64      `json:"loanDurationInSeconds"`
	Status                LoanStatus `json:"status"`
	CreatedAtMs           int64      `json:"createdAt,omitempty"`
	StartedAtMs           int64      `json:"startedAt,omitempty"`
	DueAtMs               int64      `json:"dueAt,omitempty"`
}

// GetLoansRequest contains the parameters for listing loans.
type GetLoansRequest struct {
	// Status filters by loan status. Empty lists every status.
	Status LoanStatus

	LastEvaluatedKey string
	PaginationSize   int
}

// GetLoansResponse is a page of loans.
type GetLoansResponse struct {
	Loans            []Loan `json:"loans"`
	LastEvaluatedKey string `json:"lastEvaluatedKey,omitempty"`
}

// LoanInstructionType discriminates loan instruction variants.
type LoanInstructionType string

const (
	LoanInstructionStakeNftForLoan LoanInstructionType = "STAKE_NFT_FOR_LOAN"
	LoanInstructionFundLoan        LoanInstructionType = "FUND_LOAN"
	LoanInstructionRepayLoan       LoanInstructionType = "REPAY_LOAN"
	LoanInstructionCancelLoan      LoanInstructionType = "CANCEL_LOAN"
	LoanInstructionForecloseLoan   LoanInstructionType = "FORECLOSE_LOAN"
)

// LoanInstructionRequest is implemented by every loan instruction variant.
type LoanInstructionRequest interface {
	InstructionType() LoanInstructionType
	isLoanInstruction()
}

// BaseLoanInstructionRequest holds the fields shared by all loan
// instructions.
type BaseLoanInstructionRequest struct {
	// NftMintAddress is the collateral NFT.
	NftMintAddress string `json:"nftMintAddress"`

	// SignerAddress is the wallet that will sign the transaction.
	SignerAddress string `json:"signerAddress"`
}

func (*BaseLoanInstructionRequest) isLoanInstruction() {}

// StakeNftForLoanRequest stakes an NFT as collateral and opens a loan
// request.
type StakeNftForLoanRequest struct {
	BaseLoanInstructionRequest
	LoanAmountInSOL       float64 `json:"loanAmountInSOL"`
	LoanInterestInSOL     float64 `json:"loanInterestInSOL"`
	LoanDurationInSeconds int64   `json:"loanDurationInSeconds"`
}

func (*StakeNftForLoanRequest) InstructionType() LoanInstructionType {
	return LoanInstructionStakeNftForLoan
}

// FundLoanRequest funds an open loan request; the signer is the lender.
type FundLoanRequest struct {
	BaseLoanInstructionRequest
	LoanID string `json:"loanId"`
}

func (*FundLoanRequest) InstructionType() LoanInstructionType { return LoanInstructionFundLoan }

// RepayLoanRequest repays an active loan and releases the collateral.
type RepayLoanRequest struct {
	BaseLoanInstructionRequest
	LoanID string `json:"loanId"`
}

func (*RepayLoanRequest) InstructionType() LoanInstructionType { return LoanInstructionRepayLoan }

// CancelLoanRequest withdraws an unfunded loan request.
type CancelLoanRequest struct {
	BaseLoanInstructionRequest
}

func (*CancelLoanRequest) InstructionType() LoanInstructionType { return LoanInstructionCancelLoan }

// ForecloseLoanRequest claims the collateral of an overdue loan.
type ForecloseLoanRequest struct {
	BaseLoanInstructionRequest
	LoanID string `json:"loanId"`
}

func (*ForecloseLoanRequest) InstructionType() LoanInstructionType {
	return LoanInstructionForecloseLoan
}

// LoanTransactionResponse contains an unsigned loan transaction.
type LoanTransactionResponse struct {
	// SerializedTransaction is the base64-encoded unsigned transaction.
	SerializedTransaction string `json:"serializedTransaction"`

	// LoanID is set when the instruction creates or targets a loan.
	LoanID string `json:"loanId,omitempty"`
}
