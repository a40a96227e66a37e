package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL validation errors.
var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrDisallowedScheme = errors.New("URL scheme not allowed")
)

// MaxURLLength bounds stored image links.
const MaxURLLength = 2048

// ImageURL validates an optional image link. Empty is allowed; otherwise the
// value must be an absolute http or https URL with a host.
func ImageURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return s, nil
	}
	if len(s) > MaxURLLength {
		return "", fmt.Errorf("%w: %d bytes, max %d", ErrTooLong, len(s), MaxURLLength)
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: %q", ErrDisallowedScheme, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return s, nil
}
