package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/crypto/ssh"

	"adaptkit/internal/domain"
)

// KindSSHKey is the element kind produced by the ssh-keys adapter
const KindSSHKey domain.ElementKind = "ssh.key"

// KeyElement is a public key entry identified by its SHA256 fingerprint
type KeyElement struct {
	Type        string
	Fingerprint string
	Comment     string
	Options     []string
}

// Kind implements domain.Element
func (e KeyElement) Kind() domain.ElementKind { return KindSSHKey }

// Text implements domain.Element
func (e KeyElement) Text() string {
	text := e.Type + " " + e.Fingerprint
	if e.Comment != "" {
		text += " " + e.Comment
	}
	return text
}

// SSHKeysAdapter extracts public keys from authorized_keys and .pub files
type SSHKeysAdapter struct {
	src *SourceReader
}

// SSHKeysRegistration returns the registration for the ssh-keys adapter
func SSHKeysRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "ssh-keys",
			Name:  "SSH Public Keys",
			Icon:  "icons/key.png",
			Kinds: []domain.ElementKind{KindSSHKey},
		},
		Factory: func(map[string]any) (Adapter, error) {
			return &SSHKeysAdapter{src: src}, nil
		},
	}
}

// ID implements Adapter
func (s *SSHKeysAdapter) ID() string { return "ssh-keys" }

// IsApplicable implements Adapter
func (s *SSHKeysAdapter) IsApplicable(uri *url.URL) bool {
	base := Base(uri)
	return strings.HasPrefix(base, "authorized_keys") || Ext(uri) == ".pub"
}

// Extract implements Adapter
func (s *SSHKeysAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !s.IsApplicable(uri) {
		return nil, nil
	}
	data, err := s.src.Read(uri)
	if err != nil {
		return nil, err
	}

	var elements []domain.Element
	rest := data
	for len(bytes.TrimSpace(rest)) > 0 {
		key, comment, options, next, err := ssh.ParseAuthorizedKey(rest)
		if err != nil {
			// ParseAuthorizedKey skips comments and blank lines, so an error
			// here means no further key could be parsed.
			if len(elements) == 0 {
				return nil, fmt.Errorf("parse keys: %w", err)
			}
			break
		}
		elements = append(elements, KeyElement{
			Type:        key.Type(),
			Fingerprint: ssh.FingerprintSHA256(key),
			Comment:     comment,
			Options:     options,
		})
		rest = next
	}
	return elements, nil
}
