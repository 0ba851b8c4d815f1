package ascendry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the client.
type Option func(*options) error

type options struct {
	baseURL        string
	timeout        time.Duration
	tlsConfig      *tls.Config
	httpClient     *http.Client
	logger         hclog.Logger
	tracerProvider trace.TracerProvider
	userAgent      string
}

// WithBaseURL sets the Ascendry API address. Default: DefaultBaseURL.
func WithBaseURL(addr string) Option {
	return func(o *options) error {
		o.baseURL = addr
		return nil
	}
}

// WithTimeout sets the HTTP client timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.timeout = d
		return nil
	}
}

// WithTLSConfig provides a custom TLS configuration.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) error {
		o.tlsConfig = cfg
		return nil
	}
}

// WithCACert loads a PEM-encoded CA certificate from a file path
// and adds it to the TLS root CA pool. Useful against staging
// deployments fronted by a private CA.
func WithCACert(path string) Option {
	return func(o *options) error {
		pem, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read CA cert file: %w", err)
		}
		return withCAPEM(pem)(o)
	}
}

// WithCAPEM adds a PEM-encoded CA certificate to the TLS root CA pool
// from raw bytes.
func WithCAPEM(pem []byte) Option {
	return withCAPEM(pem)
}

func withCAPEM(pem []byte) Option {
	return func(o *options) error {
		if o.tlsConfig == nil {
			o.tlsConfig = &tls.Config{}
		}
		if o.tlsConfig.RootCAs == nil {
			pool, err := x509.SystemCertPool()
			if err != nil {
				pool = x509.NewCertPool()
			}
			o.tlsConfig.RootCAs = pool
		}
		if !o.tlsConfig.RootCAs.AppendCertsFromPEM(pem) {
			return fmt.Errorf("failed to parse CA certificate PEM")
		}
		return nil
	}
}

// WithHTTPClient provides a fully custom *http.Client.
// When set, TLS options (WithTLSConfig, WithCACert, WithCAPEM)
// and WithTimeout are ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) error {
		o.httpClient = client
		return nil
	}
}

// WithLogger sets the logger used for per-request debug output.
// The API key is never logged. Default: a null logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used to
// create one client span per call. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		o.tracerProvider = tp
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		o.userAgent = ua
		return nil
	}
}
