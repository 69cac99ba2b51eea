package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"gopkg.in/yaml.v3"

	"adaptkit/internal/domain"
)

// KindYAMLKey is the element kind produced by the yaml adapter
const KindYAMLKey domain.ElementKind = "yaml.key"

// KeyPathElement is a scalar leaf of a YAML document addressed by its dotted path
type KeyPathElement struct {
	Path  string
	Value string
}

// Kind implements domain.Element
func (e KeyPathElement) Kind() domain.ElementKind { return KindYAMLKey }

// Text implements domain.Element
func (e KeyPathElement) Text() string {
	return e.Path + "=" + e.Value
}

// YAMLAdapter extracts scalar key paths from YAML documents in document order
type YAMLAdapter struct {
	src *SourceReader
}

// YAMLRegistration returns the registration for the yaml adapter
func YAMLRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "yaml",
			Name:  "YAML Keys",
			Icon:  "icons/yaml.png",
			Kinds: []domain.ElementKind{KindYAMLKey},
		},
		Factory: func(map[string]any) (Adapter, error) {
			return &YAMLAdapter{src: src}, nil
		},
	}
}

// ID implements Adapter
func (y *YAMLAdapter) ID() string { return "yaml" }

// IsApplicable implements Adapter
func (y *YAMLAdapter) IsApplicable(uri *url.URL) bool {
	ext := Ext(uri)
	return ext == ".yaml" || ext == ".yml"
}

// Extract implements Adapter
func (y *YAMLAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !y.IsApplicable(uri) {
		return nil, nil
	}
	content, err := y.src.Read(uri)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var elements []domain.Element
	walkYAML(&doc, "", &elements)
	return elements, nil
}

func walkYAML(n *yaml.Node, path string, out *[]domain.Element) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			walkYAML(c, path, out)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			walkYAML(n.Content[i+1], joinPath(path, n.Content[i].Value), out)
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			walkYAML(c, path+"["+strconv.Itoa(i)+"]", out)
		}
	case yaml.AliasNode:
		if n.Alias != nil {
			walkYAML(n.Alias, path, out)
		}
	case yaml.ScalarNode:
		*out = append(*out, KeyPathElement{Path: path, Value: n.Value})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
