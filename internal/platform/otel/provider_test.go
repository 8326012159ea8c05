package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/blueprintcatalog/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "")
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "blueprint-catalog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "blueprint-catalog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Use a non-routable address so no actual export happens.
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "blueprint-catalog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shutdown should flush cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_ShutdownFlushesCleanly(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "flush-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "")
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "noop-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestConfigActive(t *testing.T) {
	tests := []struct {
		name string
		cfg  otel.Config
		want bool
	}{
		{name: "empty endpoint", cfg: otel.Config{}, want: false},
		{name: "endpoint set", cfg: otel.Config{Endpoint: "http://localhost:4318"}, want: true},
		{name: "disabled", cfg: otel.Config{Endpoint: "http://localhost:4318", Enabled: "FALSE"}, want: false},
		{name: "explicitly enabled", cfg: otel.Config{Endpoint: "http://localhost:4318", Enabled: "true"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Active(); got != tt.want {
				t.Fatalf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigReadsSampleRatio(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_SAMPLE_RATIO", "0.25")

	cfg, err := otel.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SampleRatio != 0.25 {
		t.Fatalf("expected sample ratio 0.25, got %v", cfg.SampleRatio)
	}
}

func TestSetupRejectsInvalidSampleRatio(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_SAMPLE_RATIO", "lots")

	shutdown, err := otel.Setup(context.Background(), "blueprint-catalog-test")
	if err == nil {
		t.Fatal("expected invalid sample ratio to fail")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown error: %v", err)
	}
}
