package adapter

import (
	"bytes"
	"fmt"
	"net/url"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheEntries is the number of artifacts kept by a SourceReader
const DefaultCacheEntries = 256

// SourceReader reads artifact contents for the built-in adapters.
// Several adapters usually inspect the same leaf, so contents are cached by path.
// It is safe for concurrent use.
type SourceReader struct {
	cache *lru.Cache[string, []byte]
}

// NewSourceReader creates a reader caching up to entries artifacts
func NewSourceReader(entries int) (*SourceReader, error) {
	if entries <= 0 {
		entries = DefaultCacheEntries
	}
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}
	return &SourceReader{cache: cache}, nil
}

// Read returns the contents of the artifact behind the URI
func (s *SourceReader) Read(uri *url.URL) ([]byte, error) {
	path, err := LocalPath(uri)
	if err != nil {
		return nil, err
	}
	if data, ok := s.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	s.cache.Add(path, data)
	return data, nil
}

// Sniff reports whether the artifact contains marker within its first n bytes.
// Unreadable artifacts never match.
func (s *SourceReader) Sniff(uri *url.URL, marker string, n int) bool {
	data, err := s.Read(uri)
	if err != nil {
		return false
	}
	if len(data) > n {
		data = data[:n]
	}
	return bytes.Contains(data, []byte(marker))
}

// Purge drops all cached contents
func (s *SourceReader) Purge() {
	s.cache.Purge()
}
