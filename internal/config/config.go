package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go-ccv-extractor/internal/ccv"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	ExtractionTimeout  time.Duration
	MaxRequestBodySize int64

	// Extraction defaults applied when a request does not override them
	BinsPerChannel    int
	SmoothingWindow   int
	CoherenceFraction float64
	Grouping          string

	// Image acquisition backend: "http" or "azure"
	StorageBackend   string
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ExtractOptions maps the configured defaults onto core options
func (c *Config) ExtractOptions() ccv.ExtractOptions {
	opts := ccv.DefaultOptions()
	opts.BinsPerChannel = c.BinsPerChannel
	opts.SmoothingWindow = c.SmoothingWindow
	opts.CoherenceFraction = c.CoherenceFraction
	opts.Grouping = ccv.GroupingMode(c.Grouping)
	return opts
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		ExtractionTimeout:  parseDurationOrDefault("EXTRACTION_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		BinsPerChannel:     int(parseIntOrDefault("CCV_BINS", 2)),
		SmoothingWindow:    int(parseIntOrDefault("CCV_SMOOTHING_WINDOW", 3)),
		CoherenceFraction:  parseFloatOrDefault("CCV_COHERENCE_FRACTION", 0.01),
		Grouping:           getEnvOrDefault("CCV_GROUPING", string(ccv.GroupingLegacy)),
		StorageBackend:     getEnvOrDefault("STORAGE_BACKEND", "http"),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.ExtractionTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, extraction=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.ExtractionTimeout)
	}
	if cfg.BinsPerChannel <= 0 {
		return nil, fmt.Errorf("CCV_BINS must be > 0 (got %d)", cfg.BinsPerChannel)
	}
	if cfg.SmoothingWindow <= 0 || cfg.SmoothingWindow%2 == 0 {
		return nil, fmt.Errorf("CCV_SMOOTHING_WINDOW must be odd and positive (got %d)", cfg.SmoothingWindow)
	}
	if cfg.CoherenceFraction < 0 || cfg.CoherenceFraction > 1 {
		return nil, fmt.Errorf("CCV_COHERENCE_FRACTION must be in [0,1] (got %g)", cfg.CoherenceFraction)
	}
	switch cfg.Grouping {
	case string(ccv.GroupingLegacy), string(ccv.GroupingUnionFind):
	default:
		return nil, fmt.Errorf("invalid CCV_GROUPING: %q", cfg.Grouping)
	}
	switch cfg.StorageBackend {
	case "http":
	case "azure":
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure backend requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
