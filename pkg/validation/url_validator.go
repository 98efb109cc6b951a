package validation

import (
	"net/url"
	"strings"

	apperrors "go-ccv-extractor/internal/errors"
)

// maxImageURLLength bounds the accepted URL size; anything longer is
// rejected before parsing.
const maxImageURLLength = 2048

// URLValidator screens image URLs before the fetch layer sees them
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	maxLength      int
}

// NewURLValidator creates a URL validator accepting http(s) URLs from any host
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
		maxLength:      maxImageURLLength,
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom scheme and
// host allow-lists
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		maxLength:      maxImageURLLength,
	}
}

// ValidateImageURL reports whether the URL is acceptable as an image source
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	if len(imageURL) > v.maxLength {
		return apperrors.NewValidationError("URL exceeds maximum length", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsedURL.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks the host against the allow-list; an empty list
// allows every host
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
