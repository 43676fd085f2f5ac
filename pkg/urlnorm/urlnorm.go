// Package urlnorm validates user-submitted page addresses and reduces them to
// a canonical scheme://host[/path] form.
package urlnorm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxLength is the maximum number of characters accepted for a URL.
const MaxLength = 255

var (
	// ErrEmpty is returned when the input is empty after trimming.
	ErrEmpty = errors.New("url is empty")
	// ErrInvalid is returned when the input is not an absolute http(s) URL.
	ErrInvalid = errors.New("url is invalid")
	// ErrTooLong is returned when the input exceeds MaxLength characters.
	ErrTooLong = errors.New("url is too long")
)

var validate = validator.New()

var rules = fmt.Sprintf("required,url,max=%d", MaxLength)

// Normalize trims raw, validates it and returns it as scheme://host[/path].
// The query string, fragment and user info are dropped, the scheme and host
// are lower-cased and a single trailing slash is removed from the path.
func Normalize(raw string) (string, error) {
	const op = "urlnorm.Normalize"

	s := strings.TrimSpace(raw)

	if err := validate.Var(s, rules); err != nil {
		return "", fmt.Errorf("%s: %w", op, errorForTag(err))
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%s: %w: unsupported scheme %q", op, ErrInvalid, u.Scheme)
	}

	host := strings.ToLower(u.Host)
	if u.Hostname() == "" {
		return "", fmt.Errorf("%s: %w: missing host", op, ErrInvalid)
	}

	normalized := scheme + "://" + host + strings.TrimSuffix(u.EscapedPath(), "/")
	if len(normalized) > MaxLength {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}

	return normalized, nil
}

// errorForTag maps the first failed validation rule to its error value.
func errorForTag(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ErrInvalid
	}

	switch errs[0].Tag() {
	case "required":
		return ErrEmpty
	case "max":
		return ErrTooLong
	default:
		return ErrInvalid
	}
}
