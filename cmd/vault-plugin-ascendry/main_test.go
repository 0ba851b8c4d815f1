package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/vault/sdk/plugin"
	"go.opentelemetry.io/otel"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestRun_ServeErrorFlushesSpans(t *testing.T) {
	restoreGlobals(t)

	var exports atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			exports.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)
	t.Setenv("ASCENDRY_OTLP_ENDPOINT", collector.URL+"/v1/traces")

	code := run(nil, func(opts *plugin.ServeOpts) error {
		if opts.BackendFactoryFunc == nil || opts.Logger == nil {
			t.Error("serve options are incomplete")
		}
		_, span := otel.Tracer("test").Start(context.Background(), "serve")
		span.End()
		return errors.New("handshake failed")
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if exports.Load() == 0 {
		t.Error("expected buffered spans to be exported before exit")
	}
}

func TestRun_CleanExit(t *testing.T) {
	restoreGlobals(t)
	t.Setenv("ASCENDRY_OTLP_ENDPOINT", "")

	code := run(nil, func(*plugin.ServeOpts) error { return nil })
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRun_BadFlags(t *testing.T) {
	code := run([]string{"-no-such-flag"}, func(*plugin.ServeOpts) error {
		t.Error("serve must not run after a flag error")
		return nil
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
