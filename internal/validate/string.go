// Package validate provides input validation for catalog submissions.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// String validation errors.
var (
	ErrEmpty   = errors.New("value is empty")
	ErrTooLong = errors.New("value is too long")
)

// Length limits in runes, not bytes.
const (
	MaxTitleLength       = 140
	MaxDescriptionLength = 2000
	MaxNameLength        = 80
	MaxCommentLength     = 1000
)

// text trims a value and enforces length limits.
func text(s string, maxLength int, allowEmpty bool) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if !allowEmpty {
			return "", ErrEmpty
		}
		return s, nil
	}
	if n := utf8.RuneCountInString(s); n > maxLength {
		return "", fmt.Errorf("%w: %d runes, max %d", ErrTooLong, n, maxLength)
	}
	return s, nil
}

// Title validates and trims a post title. Titles are required.
func Title(s string) (string, error) {
	return text(s, MaxTitleLength, false)
}

// Description validates and trims a post description. May be empty.
func Description(s string) (string, error) {
	return text(s, MaxDescriptionLength, true)
}

// DisplayName validates and trims a designer or reviewer name. May be empty;
// anonymous reviews carry no name.
func DisplayName(s string) (string, error) {
	return text(s, MaxNameLength, true)
}

// Comment validates and trims a review comment. May be empty.
func Comment(s string) (string, error) {
	return text(s, MaxCommentLength, true)
}
