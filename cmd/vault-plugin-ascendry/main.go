package main

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/sdk/plugin"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/backend"
	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], plugin.ServeMultiplex))
}

// run serves the plugin and returns the process exit code. Deferred
// cleanup, including the span flush, completes before main exits.
func run(args []string, serve func(*plugin.ServeOpts) error) int {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "vault-plugin-ascendry",
		Level:      hclog.LevelFromString(envOrDefault("ASCENDRY_PLUGIN_LOG_LEVEL", "info")),
		Output:     os.Stderr,
		JSONFormat: true,
	})

	// Vault passes the TLS client metadata as flags.
	apiClientMeta := &api.PluginAPIClientMeta{}
	flags := apiClientMeta.FlagSet()
	if err := flags.Parse(args); err != nil {
		logger.Error("failed to parse flags", "error", err)
		return 1
	}

	tlsConfig := apiClientMeta.GetTLSConfig()
	tlsProviderFunc := api.VaultPluginTLSProvider(tlsConfig)

	// Stdout carries the plugin handshake, so spans only go to a collector.
	if endpoint := os.Getenv("ASCENDRY_OTLP_ENDPOINT"); endpoint != "" {
		shutdown, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
			ServiceName:    "vault-plugin-ascendry",
			ServiceVersion: backend.Version,
			Environment:    os.Getenv("ASCENDRY_ENVIRONMENT"),
			Endpoint:       endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
			return 1
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush spans", "error", err)
			}
		}()
	}

	logger.Info("starting plugin", "version", backend.Version)

	err := serve(&plugin.ServeOpts{
		BackendFactoryFunc: backend.Factory,
		TLSProviderFunc:    tlsProviderFunc,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("plugin shutting down", "error", err)
		return 1
	}
	return 0
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
