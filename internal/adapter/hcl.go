package adapter

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"adaptkit/internal/domain"
)

const (
	// KindHCLBlock is a block (with its labels) in an HCL file
	KindHCLBlock domain.ElementKind = "hcl.block"
	// KindHCLAttribute is an attribute name in an HCL file
	KindHCLAttribute domain.ElementKind = "hcl.attribute"
)

// BlockElement is an HCL block addressed by type and labels
type BlockElement struct {
	Path string
}

// Kind implements domain.Element
func (e BlockElement) Kind() domain.ElementKind { return KindHCLBlock }

// Text implements domain.Element
func (e BlockElement) Text() string { return e.Path }

// AttributeElement is an HCL attribute addressed by its enclosing blocks
type AttributeElement struct {
	Path string
}

// Kind implements domain.Element
func (e AttributeElement) Kind() domain.ElementKind { return KindHCLAttribute }

// Text implements domain.Element
func (e AttributeElement) Text() string { return e.Path }

// HCLAdapter extracts blocks and attributes from HCL and Terraform files
type HCLAdapter struct {
	src *SourceReader
}

// HCLRegistration returns the registration for the hcl adapter
func HCLRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "hcl",
			Name:  "HCL Blocks",
			Icon:  "icons/hcl.png",
			Kinds: []domain.ElementKind{KindHCLBlock, KindHCLAttribute},
		},
		Factory: func(map[string]any) (Adapter, error) {
			return &HCLAdapter{src: src}, nil
		},
	}
}

// ID implements Adapter
func (h *HCLAdapter) ID() string { return "hcl" }

// IsApplicable implements Adapter
func (h *HCLAdapter) IsApplicable(uri *url.URL) bool {
	ext := Ext(uri)
	return ext == ".hcl" || ext == ".tf"
}

// Extract implements Adapter
func (h *HCLAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !h.IsApplicable(uri) {
		return nil, nil
	}
	content, err := h.src.Read(uri)
	if err != nil {
		return nil, err
	}

	file, diags := hclsyntax.ParseConfig(content, Base(uri), hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %s", diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected hcl body type %T", file.Body)
	}

	var elements []domain.Element
	walkHCL(body, "", &elements)
	return elements, nil
}

type hclItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

// walkHCL emits attributes and blocks in source order, descending into nested blocks
func walkHCL(body *hclsyntax.Body, prefix string, out *[]domain.Element) {
	items := make([]hclItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, hclItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, hclItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	for _, item := range items {
		if item.attr != nil {
			*out = append(*out, AttributeElement{Path: joinPath(prefix, item.attr.Name)})
			continue
		}
		name := strings.Join(append([]string{item.block.Type}, item.block.Labels...), ".")
		path := joinPath(prefix, name)
		*out = append(*out, BlockElement{Path: path})
		walkHCL(item.block.Body, path, out)
	}
}
