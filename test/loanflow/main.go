// Command loanflow walks through the NFT-collateralized loan workflow
// against the Ascendry API using the Go SDK.
//
// Workflow:
//
//	Step 1: GET  /nfts?ownerAddress=...        -> pick the collateral NFT
//	Step 2: GET  /loans/nft/:mint              -> existing loans on the NFT
//	Step 3: POST /transactions/loan            -> unsigned STAKE_NFT_FOR_LOAN tx
//	Step 4: POST /rpc/transactions (optional)  -> relay a tx signed elsewhere
//
// Usage:
//
//	# Against the live API, API key from the environment
//	ASCENDRY_API_KEY=... go run ./test/loanflow -owner <address> -amount 2.5
//
//	# API key read from a Vault KV v2 secret (field "api_key")
//	VAULT_ADDR=http://127.0.0.1:8200 VAULT_TOKEN=root \
//	  ASCENDRY_VAULT_KV_PATH=ascendry go run ./test/loanflow -owner <address>
//
//	# Offline, against the in-memory mock
//	go run ./test/loanflow -mock
//
// Environment variables:
//
//	ASCENDRY_API_KEY        - Ascendry API key (takes precedence over Vault)
//	ASCENDRY_BASE_URL       - API address (default: https://api.ascendry.io)
//	VAULT_ADDR              - Vault server address (default: http://127.0.0.1:8200)
//	VAULT_TOKEN             - Vault authentication token
//	ASCENDRY_VAULT_KV_MOUNT - KV v2 mount holding the API key (default: secret)
//	ASCENDRY_VAULT_KV_PATH  - KV v2 secret path holding the API key
//	OTEL_EXPORTER_OTLP_TRACES_ENDPOINT - default for -otlp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"
	vault "github.com/hashicorp/vault/api"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/telemetry"
	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk/mock"
)

const (
	demoOwner = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	demoMint  = "So11111111111111111111111111111111111111112"
)

func main() {
	owner := flag.String("owner", "", "Borrower wallet address (required unless -mock)")
	mint := flag.String("mint", "", "Collateral NFT mint (default: first NFT owned by -owner)")
	amount := flag.Float64("amount", 1, "Loan amount in SOL")
	interest := flag.Float64("interest", 0.05, "Loan interest in SOL")
	duration := flag.Duration("duration", 7*24*time.Hour, "Loan duration")
	signedTx := flag.String("submit", "", "Base64 signed transaction to relay (optional)")
	useMock := flag.Bool("mock", false, "Use the in-memory mock instead of the live API")
	verbose := flag.Bool("v", false, "Log every API request")
	otlpEndpoint := flag.String("otlp", os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"), "OTLP/HTTP collector URL for request spans (optional)")
	flag.Parse()

	level := hclog.Info
	if *verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "loanflow",
		Level:  level,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *otlpEndpoint != "" {
		shutdown, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
			ServiceName: "loanflow",
			Endpoint:    *otlpEndpoint,
		})
		if err != nil {
			fatal("Failed to initialize tracing: %v", err)
		}
		defer shutdown(context.Background())
	}

	var client ascendry.Client
	if *useMock {
		client = mock.New(
			mock.WithNfts(ascendry.Nft{Mint: demoMint, Owner: demoOwner, Name: "Demo Watch", Status: ascendry.NftStatusVaulted}),
		)
		if *owner == "" {
			*owner = demoOwner
		}
	} else {
		if *owner == "" {
			fmt.Fprintln(os.Stderr, "Error: -owner is required")
			flag.Usage()
			os.Exit(1)
		}
		apiKey, err := loadAPIKey(ctx)
		if err != nil {
			fatal("Failed to load API key: %v", err)
		}
		opts := []ascendry.Option{ascendry.WithLogger(logger), ascendry.WithUserAgent("loanflow")}
		if baseURL := os.Getenv("ASCENDRY_BASE_URL"); baseURL != "" {
			opts = append(opts, ascendry.WithBaseURL(baseURL))
		}
		client, err = ascendry.NewClient(apiKey, opts...)
		if err != nil {
			fatal("Failed to create client: %v", err)
		}
	}

	// =========================================================================
	// Step 1: Find the collateral NFT
	// =========================================================================
	fmt.Println("=== Step 1: Find collateral NFT ===")
	collateral := *mint
	if collateral == "" {
		nfts, err := client.GetVaultNfts(ctx, &ascendry.GetVaultNftsRequest{OwnerAddress: *owner, PaginationSize: 1})
		if err != nil {
			fatal("Failed to list NFTs: %v", err)
		}
		if len(nfts.Nfts) == 0 {
			fatal("No vaulted NFTs for %s", *owner)
		}
		collateral = nfts.Nfts[0].Mint
		fmt.Printf("  Name:   %s\n", nfts.Nfts[0].Name)
		fmt.Printf("  Status: %s\n", nfts.Nfts[0].Status)
	}
	fmt.Printf("  Owner:  %s\n", *owner)
	fmt.Printf("  Mint:   %s\n", collateral)

	// =========================================================================
	// Step 2: Show existing loans on the NFT
	// =========================================================================
	fmt.Println("\n=== Step 2: Existing loans ===")
	loans, err := client.GetLoansByNftMintAddress(ctx, collateral)
	if err != nil {
		fatal("Failed to read loans: %v", err)
	}
	if len(loans.Loans) == 0 {
		fmt.Println("  (none)")
	}
	for _, l := range loans.Loans {
		fmt.Printf("  %s  %-10s  %.4f SOL\n", l.LoanID, l.Status, l.LoanAmountInSOL)
	}

	// =========================================================================
	// Step 3: Build the unsigned stake-for-loan transaction
	// =========================================================================
	fmt.Println("\n=== Step 3: Build STAKE_NFT_FOR_LOAN transaction ===")
	tx, err := client.GenerateUnsignedLoanTransaction(ctx, &ascendry.StakeNftForLoanRequest{
		BaseLoanInstructionRequest: ascendry.BaseLoanInstructionRequest{
			NftMintAddress: collateral,
			SignerAddress:  *owner,
		},
		LoanAmountInSOL:       *amount,
		LoanInterestInSOL:     *interest,
		LoanDurationInSeconds: int64(duration.Seconds()),
	})
	if err != nil {
		fatal("Failed to build loan transaction: %v", err)
	}
	fmt.Printf("  Amount:   %.4f SOL\n", *amount)
	fmt.Printf("  Interest: %.4f SOL\n", *interest)
	fmt.Printf("  Duration: %s\n", *duration)
	if tx.LoanID != "" {
		fmt.Printf("  Loan ID:  %s\n", tx.LoanID)
	}
	fmt.Printf("  Unsigned: %s\n", tx.SerializedTransaction)

	// =========================================================================
	// Step 4: Relay a signed transaction (optional)
	// =========================================================================
	if *signedTx == "" {
		fmt.Println("\nSign the transaction with the borrower wallet and rerun with -submit to relay it.")
		return
	}
	fmt.Println("\n=== Step 4: Relay signed transaction ===")
	signature, err := client.SubmitTransactionToRpc(ctx, *signedTx)
	if err != nil {
		var remoteErr *ascendry.RemoteError
		if errors.As(err, &remoteErr) {
			fatal("Relay rejected (request %s): %s", remoteErr.RequestID, remoteErr.Message)
		}
		fatal("Failed to relay transaction: %v", err)
	}
	fmt.Printf("  Signature: %s\n", signature)
}

// loadAPIKey returns ASCENDRY_API_KEY, or the "api_key" field of the Vault
// KV v2 secret named by ASCENDRY_VAULT_KV_PATH.
func loadAPIKey(ctx context.Context) (string, error) {
	if key := os.Getenv("ASCENDRY_API_KEY"); key != "" {
		return key, nil
	}

	path := os.Getenv("ASCENDRY_VAULT_KV_PATH")
	if path == "" {
		return "", errors.New("set ASCENDRY_API_KEY or ASCENDRY_VAULT_KV_PATH")
	}

	cfg := vault.DefaultConfig()
	cfg.Address = envOrDefault("VAULT_ADDR", "http://127.0.0.1:8200")
	vc, err := vault.NewClient(cfg)
	if err != nil {
		return "", fmt.Errorf("vault client: %w", err)
	}
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		vc.SetToken(token)
	}

	secret, err := vc.KVv2(envOrDefault("ASCENDRY_VAULT_KV_MOUNT", "secret")).Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	key, ok := secret.Data["api_key"].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("secret %s has no api_key field", path)
	}
	return key, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
