package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"adaptkit/internal/domain"
)

// KindTextLine is the element kind produced by the text adapter
const KindTextLine domain.ElementKind = "text.line"

// LineElement is one non-blank line of a text artifact
type LineElement struct {
	Line string
}

// Kind implements domain.Element
func (e LineElement) Kind() domain.ElementKind { return KindTextLine }

// Text implements domain.Element
func (e LineElement) Text() string { return e.Line }

// TextAdapter extracts trimmed, non-blank lines from text files
type TextAdapter struct {
	src        *SourceReader
	extensions map[string]struct{}
}

// TextRegistration returns the registration for the text adapter.
// Settings: extensions (list of file extensions).
func TextRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "text",
			Name:  "Text Lines",
			Icon:  "icons/text.png",
			Kinds: []domain.ElementKind{KindTextLine},
		},
		Factory: func(settings map[string]any) (Adapter, error) {
			exts, err := stringList(settings, "extensions", []string{".txt", ".text", ".md"})
			if err != nil {
				return nil, err
			}
			return &TextAdapter{src: src, extensions: extensionSet(exts)}, nil
		},
	}
}

// ID implements Adapter
func (a *TextAdapter) ID() string { return "text" }

// IsApplicable implements Adapter
func (a *TextAdapter) IsApplicable(uri *url.URL) bool {
	_, ok := a.extensions[Ext(uri)]
	return ok
}

// Extract implements Adapter
func (a *TextAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !a.IsApplicable(uri) {
		return nil, nil
	}
	data, err := a.src.Read(uri)
	if err != nil {
		return nil, err
	}

	var elements []domain.Element
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		elements = append(elements, LineElement{Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", uri, err)
	}
	return elements, nil
}
