package ascendry

// GenerateMemoTransactionRequest contains the parameters for a memo-only
// transaction.
type GenerateMemoTransactionRequest struct {
	MemoMessage   string `json:"memoMessage"`
	SignerAddress string `json:"signerAddress"`
}

type submitTransactionRequest struct {
	SerializedTransaction string `json:"serializedTransaction"`
}
