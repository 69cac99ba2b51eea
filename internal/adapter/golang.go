package adapter

import (
	"context"
	"fmt"
	"net/url"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"adaptkit/internal/domain"
)

// KindGoDecl is the element kind produced by the go adapter
const KindGoDecl domain.ElementKind = "go.decl"

// declQuery captures top-level functions, methods and named types
const declQuery = `
(function_declaration name: (identifier) @func)
(method_declaration name: (field_identifier) @method)
(type_spec name: (type_identifier) @type)
`

// DeclElement is a declaration found in a Go source file
type DeclElement struct {
	Decl string // func, method or type
	Name string
	Line int
}

// Kind implements domain.Element
func (e DeclElement) Kind() domain.ElementKind { return KindGoDecl }

// Text implements domain.Element
func (e DeclElement) Text() string {
	return e.Decl + " " + e.Name
}

// GoAdapter extracts declarations from Go source files using tree-sitter
type GoAdapter struct {
	src  *SourceReader
	lang *sitter.Language
}

// GoRegistration returns the registration for the go adapter
func GoRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "go",
			Name:  "Go Declarations",
			Icon:  "icons/go.png",
			Kinds: []domain.ElementKind{KindGoDecl},
		},
		Factory: func(map[string]any) (Adapter, error) {
			return &GoAdapter{src: src, lang: golang.GetLanguage()}, nil
		},
	}
}

// ID implements Adapter
func (g *GoAdapter) ID() string { return "go" }

// IsApplicable implements Adapter
func (g *GoAdapter) IsApplicable(uri *url.URL) bool {
	return Ext(uri) == ".go"
}

// Extract implements Adapter
func (g *GoAdapter) Extract(ctx context.Context, uri *url.URL) ([]domain.Element, error) {
	if !g.IsApplicable(uri) {
		return nil, nil
	}
	content, err := g.src.Read(uri)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", uri, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(declQuery), g.lang)
	if err != nil {
		return nil, fmt.Errorf("invalid declaration query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var elements []domain.Element
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			elements = append(elements, DeclElement{
				Decl: q.CaptureNameForId(c.Index),
				Name: c.Node.Content(content),
				Line: int(c.Node.StartPoint().Row) + 1,
			})
		}
	}
	return elements, nil
}
