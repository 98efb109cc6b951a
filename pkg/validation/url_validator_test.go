package validation

import (
	"strings"
	"testing"

	apperrors "go-ccv-extractor/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateImageURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/image.jpg",
		"https://example.com/image.png",
		"https://subdomain.example.com/path/to/image.gif",
		"http://192.168.1.1/image.jpg",
	}

	for _, url := range validURLs {
		if err := validator.ValidateImageURL(url); err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", url, err)
		}
	}
}

func TestValidateImageURL_EmptyURL(t *testing.T) {
	validator := NewURLValidator()

	for _, url := range []string{"", "   ", "\t\n"} {
		err := validator.ValidateImageURL(url)
		if err == nil {
			t.Errorf("Expected empty URL '%s' to fail validation", url)
			continue
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			if appErr.Message != "URL cannot be empty" {
				t.Errorf("Expected 'URL cannot be empty' error, got: %s", appErr.Message)
			}
		} else {
			t.Errorf("Expected AppError, got: %T", err)
		}
	}
}

func TestValidateImageURL_TooLong(t *testing.T) {
	validator := NewURLValidator()

	longURL := "http://example.com/" + strings.Repeat("a", maxImageURLLength)
	err := validator.ValidateImageURL(longURL)
	if err == nil {
		t.Fatal("Expected an oversized URL to fail validation")
	}
	if appErr, ok := err.(*apperrors.AppError); ok {
		if appErr.Message != "URL exceeds maximum length" {
			t.Errorf("Expected 'URL exceeds maximum length' error, got: %s", appErr.Message)
		}
	} else {
		t.Errorf("Expected AppError, got: %T", err)
	}

	// A URL exactly at the limit still passes
	atLimit := "http://example.com/" + strings.Repeat("a", maxImageURLLength-len("http://example.com/"))
	if err := validator.ValidateImageURL(atLimit); err != nil {
		t.Errorf("Expected a URL at the length limit to pass, got: %v", err)
	}
}

func TestValidateImageURL_InvalidURLs(t *testing.T) {
	validator := NewURLValidator()

	invalidURLs := []string{
		"not-a-url",
		"://missing-scheme",
		"http://",
		"http:///path",
		"ftp://example.com/image.jpg",
		"file://local/path/image.jpg",
	}

	for _, url := range invalidURLs {
		err := validator.ValidateImageURL(url)
		if err == nil {
			t.Errorf("Expected invalid URL '%s' to fail validation", url)
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("Expected a validation error for '%s', got: %v", url, err)
		}
	}
}

func TestValidateImageURL_RestrictedHosts(t *testing.T) {
	allowedHosts := []string{"example.com", "trusted.com"}
	validator := NewURLValidatorWithOptions([]string{"http", "https"}, allowedHosts)

	allowedURLs := []string{
		"http://example.com/image.jpg",
		"https://trusted.com/image.png",
	}
	for _, url := range allowedURLs {
		if err := validator.ValidateImageURL(url); err != nil {
			t.Errorf("Expected allowed host URL '%s' to pass validation, got error: %v", url, err)
		}
	}

	disallowedURLs := []string{
		"http://malicious.com/image.jpg",
		"https://untrusted.com/image.png",
	}
	for _, url := range disallowedURLs {
		err := validator.ValidateImageURL(url)
		if err == nil {
			t.Errorf("Expected disallowed host URL '%s' to fail validation", url)
			continue
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			if appErr.Message != "URL host not allowed" {
				t.Errorf("Expected 'URL host not allowed' error, got: %s", appErr.Message)
			}
		}
	}
}

func TestIsHostAllowed(t *testing.T) {
	// No restrictions means every host passes
	validator := NewURLValidator()
	if !validator.isHostAllowed("example.com") {
		t.Error("Expected any host to be allowed when no restrictions")
	}

	restricted := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com"})
	if !restricted.isHostAllowed("example.com") {
		t.Error("Expected example.com to be allowed")
	}
	if restricted.isHostAllowed("malicious.com") {
		t.Error("Expected malicious.com to be disallowed")
	}
}
