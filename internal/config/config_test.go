package config

import (
	"testing"
	"time"

	"go-ccv-extractor/internal/ccv"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %s", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 10*1024*1024 {
		t.Errorf("Expected 10MB body limit, got %d", cfg.MaxRequestBodySize)
	}
	if cfg.BinsPerChannel != 2 || cfg.SmoothingWindow != 3 || cfg.CoherenceFraction != 0.01 {
		t.Errorf("Unexpected extraction defaults: bins=%d window=%d fraction=%v",
			cfg.BinsPerChannel, cfg.SmoothingWindow, cfg.CoherenceFraction)
	}
	if cfg.Grouping != "legacy" {
		t.Errorf("Expected legacy grouping default, got %s", cfg.Grouping)
	}
	if cfg.StorageBackend != "http" {
		t.Errorf("Expected http storage backend default, got %s", cfg.StorageBackend)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("CCV_BINS", "4")
	t.Setenv("CCV_SMOOTHING_WINDOW", "5")
	t.Setenv("CCV_COHERENCE_FRACTION", "0.05")
	t.Setenv("CCV_GROUPING", "unionfind")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "5s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ServerAddress() != "127.0.0.1:9090" {
		t.Errorf("Expected 127.0.0.1:9090, got %s", cfg.ServerAddress())
	}
	if cfg.BinsPerChannel != 4 {
		t.Errorf("Expected 4 bins, got %d", cfg.BinsPerChannel)
	}
	if cfg.SmoothingWindow != 5 {
		t.Errorf("Expected window 5, got %d", cfg.SmoothingWindow)
	}
	if cfg.CoherenceFraction != 0.05 {
		t.Errorf("Expected fraction 0.05, got %v", cfg.CoherenceFraction)
	}
	if cfg.Grouping != "unionfind" {
		t.Errorf("Expected unionfind grouping, got %s", cfg.Grouping)
	}
	if cfg.ImageFetchTimeout != 5*time.Second {
		t.Errorf("Expected 5s fetch timeout, got %s", cfg.ImageFetchTimeout)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"zero bins", "CCV_BINS", "0"},
		{"negative bins", "CCV_BINS", "-1"},
		{"even window", "CCV_SMOOTHING_WINDOW", "4"},
		{"fraction above one", "CCV_COHERENCE_FRACTION", "1.5"},
		{"negative fraction", "CCV_COHERENCE_FRACTION", "-0.1"},
		{"unknown grouping", "CCV_GROUPING", "flood"},
		{"unknown backend", "STORAGE_BACKEND", "s3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected LoadFromEnv to fail with %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFromEnv_AzureRequiresCredentials(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "azure")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected azure backend without credentials to fail")
	}

	t.Setenv("AZURE_ACCOUNT_NAME", "acct")
	t.Setenv("AZURE_ACCOUNT_KEY", "a2V5")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed with credentials set: %v", err)
	}
	if cfg.StorageBackend != "azure" {
		t.Errorf("Expected azure backend, got %s", cfg.StorageBackend)
	}
}

func TestLoadFromEnv_MalformedOptionalFallsBack(t *testing.T) {
	// Unparseable durations and sizes fall back to their defaults rather
	// than failing the load
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("MAX_REQUEST_BODY_SIZE", "lots")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected fallback 30s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 10*1024*1024 {
		t.Errorf("Expected fallback 10MB limit, got %d", cfg.MaxRequestBodySize)
	}
}

func TestExtractOptions(t *testing.T) {
	cfg := &Config{
		BinsPerChannel:    3,
		SmoothingWindow:   5,
		CoherenceFraction: 0.02,
		Grouping:          "unionfind",
	}

	opts := cfg.ExtractOptions()
	if opts.BinsPerChannel != 3 || opts.SmoothingWindow != 5 {
		t.Errorf("Unexpected discretization options: %+v", opts)
	}
	if opts.CoherenceFraction != 0.02 {
		t.Errorf("Expected fraction 0.02, got %v", opts.CoherenceFraction)
	}
	if opts.Grouping != ccv.GroupingUnionFind {
		t.Errorf("Expected unionfind grouping, got %s", opts.Grouping)
	}
}
