package domain

import (
	"errors"
	"fmt"
)

// ErrCompositeURI is returned when a composite variant carries its own URI
var ErrCompositeURI = errors.New("composite variant must not have a URI")

// Variant is a node in the artifact tree
type Variant struct {
	Name     string     `json:"name,omitempty"`
	URI      string     `json:"uri,omitempty"`
	Active   bool       `json:"active"`
	Children []*Variant `json:"children,omitempty"`
}

// NewLeaf creates an active leaf variant
func NewLeaf(name, uri string) *Variant {
	return &Variant{
		Name:   name,
		URI:    uri,
		Active: true,
	}
}

// NewComposite creates an active composite variant with the given children
func NewComposite(name string, children ...*Variant) *Variant {
	return &Variant{
		Name:     name,
		Active:   true,
		Children: children,
	}
}

// IsComposite reports whether the variant has children
func (v *Variant) IsComposite() bool {
	return len(v.Children) > 0
}

// Label returns the display name, falling back to the URI
func (v *Variant) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return v.URI
}

// Validate checks the leaf/composite invariant for the whole subtree
func (v *Variant) Validate() error {
	if v.IsComposite() && v.URI != "" {
		return fmt.Errorf("%s: %w", v.Label(), ErrCompositeURI)
	}
	for _, child := range v.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns the leaf variants of the subtree in pre-order.
// Inactive subtrees are skipped when activeOnly is set.
func (v *Variant) Leaves(activeOnly bool) []*Variant {
	var leaves []*Variant
	var walk func(n *Variant)
	walk = func(n *Variant) {
		if activeOnly && !n.Active {
			return
		}
		if !n.IsComposite() {
			leaves = append(leaves, n)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(v)
	return leaves
}

// VariantsModel owns the ordered root variants of a project
type VariantsModel struct {
	Name     string     `json:"name,omitempty"`
	Variants []*Variant `json:"variants"`
}

// Validate checks every root variant
func (m *VariantsModel) Validate() error {
	for _, v := range m.Variants {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ActiveCount returns the number of active root variants
func (m *VariantsModel) ActiveCount() int {
	count := 0
	for _, v := range m.Variants {
		if v.Active {
			count++
		}
	}
	return count
}
