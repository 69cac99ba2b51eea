package adapter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"adaptkit/internal/domain"
)

// KindJSONValue is the element kind produced by the json adapter
const KindJSONValue domain.ElementKind = "json.value"

// JSONValueElement is a value selected from a JSON document
type JSONValueElement struct {
	Selector string
	Value    string
}

// Kind implements domain.Element
func (e JSONValueElement) Kind() domain.ElementKind { return KindJSONValue }

// Text implements domain.Element
func (e JSONValueElement) Text() string {
	return e.Selector + "=" + e.Value
}

// JSONAdapter extracts values matched by JSONPath selectors
type JSONAdapter struct {
	src       *SourceReader
	selectors []string
	exprs     []jp.Expr
}

// JSONRegistration returns the registration for the json adapter.
// Settings: selectors (list of JSONPath expressions).
func JSONRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "json",
			Name:  "JSON Values",
			Icon:  "icons/json.png",
			Kinds: []domain.ElementKind{KindJSONValue},
		},
		Factory: func(settings map[string]any) (Adapter, error) {
			selectors, err := stringList(settings, "selectors", []string{"$.*"})
			if err != nil {
				return nil, err
			}
			return NewJSONAdapter(src, selectors)
		},
	}
}

// NewJSONAdapter compiles the selectors once
func NewJSONAdapter(src *SourceReader, selectors []string) (*JSONAdapter, error) {
	exprs := make([]jp.Expr, 0, len(selectors))
	for _, selector := range selectors {
		x, err := jp.ParseString(selector)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
		}
		exprs = append(exprs, x)
	}
	return &JSONAdapter{src: src, selectors: selectors, exprs: exprs}, nil
}

// ID implements Adapter
func (j *JSONAdapter) ID() string { return "json" }

// IsApplicable implements Adapter
func (j *JSONAdapter) IsApplicable(uri *url.URL) bool {
	return Ext(uri) == ".json"
}

// Extract implements Adapter
func (j *JSONAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !j.IsApplicable(uri) {
		return nil, nil
	}
	content, err := j.src.Read(uri)
	if err != nil {
		return nil, err
	}
	data, err := oj.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json %s: %w", uri, err)
	}

	var elements []domain.Element
	for i, x := range j.exprs {
		for _, v := range x.Get(data) {
			elements = append(elements, JSONValueElement{
				Selector: j.selectors[i],
				Value:    oj.JSON(v),
			})
		}
	}
	return elements, nil
}
