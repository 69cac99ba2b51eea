package adapter

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformedURI is returned when a leaf URI cannot be parsed
	ErrMalformedURI = errors.New("malformed variant URI")
	// ErrUnsupportedScheme is returned when an artifact is not on the local filesystem
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
)

// ParseURI parses a leaf variant URI
func ParseURI(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedURI, raw, err)
	}
	return u, nil
}

// LocalPath resolves a file URI (or a scheme-less path) to a filesystem path
func LocalPath(u *url.URL) (string, error) {
	switch u.Scheme {
	case "", "file":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", fmt.Errorf("%w: empty path in %q", ErrMalformedURI, u.String())
	}
	return filepath.FromSlash(p), nil
}

// Ext returns the lower-cased extension of the URI path
func Ext(u *url.URL) string {
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	return strings.ToLower(path.Ext(p))
}

// Base returns the last element of the URI path
func Base(u *url.URL) string {
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	return path.Base(p)
}
