package loader

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"adaptkit/internal/domain"

	"gopkg.in/yaml.v3"
)

// ErrLeafLocation is returned when a variant sets both uri and path
var ErrLeafLocation = errors.New("variant sets both uri and path")

// ErrEmptyVariant is returned for a null entry in a variants list
var ErrEmptyVariant = errors.New("empty variant entry")

// ModelYAML represents the variants model file structure
type ModelYAML struct {
	Version  string         `yaml:"version"`
	Name     string         `yaml:"name"`
	Variants []*VariantYAML `yaml:"variants"`
}

// VariantYAML represents a variant in YAML format.
// A leaf sets either uri or path; path is resolved against the model file's directory.
type VariantYAML struct {
	Name     string         `yaml:"name,omitempty"`
	URI      string         `yaml:"uri,omitempty"`
	Path     string         `yaml:"path,omitempty"`
	Active   *bool          `yaml:"active,omitempty"` // nil = active
	Variants []*VariantYAML `yaml:"variants,omitempty"`
}

// LoadYAML loads a variants model from a YAML file
func LoadYAML(path string) (*domain.VariantsModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve model path: %w", err)
	}
	return ParseYAML(data, filepath.Dir(abs))
}

// ParseYAML parses a variants model. baseDir anchors relative leaf paths.
func ParseYAML(data []byte, baseDir string) (*domain.VariantsModel, error) {
	var y ModelYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	model := &domain.VariantsModel{
		Name:     y.Name,
		Variants: make([]*domain.Variant, 0, len(y.Variants)),
	}
	for _, vy := range y.Variants {
		v, err := convertVariant(vy, baseDir)
		if err != nil {
			return nil, err
		}
		model.Variants = append(model.Variants, v)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return model, nil
}

func convertVariant(vy *VariantYAML, baseDir string) (*domain.Variant, error) {
	if vy == nil {
		return nil, ErrEmptyVariant
	}
	if vy.URI != "" && vy.Path != "" {
		return nil, fmt.Errorf("%s: %w", vy.Name, ErrLeafLocation)
	}

	v := &domain.Variant{
		Name:   vy.Name,
		URI:    vy.URI,
		Active: vy.Active == nil || *vy.Active,
	}
	if vy.Path != "" {
		v.URI = FileURI(resolvePath(vy.Path, baseDir))
	}

	for _, child := range vy.Variants {
		c, err := convertVariant(child, baseDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Label(), err)
		}
		v.Children = append(v.Children, c)
	}
	return v, nil
}

func resolvePath(p, baseDir string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

// FileURI converts a filesystem path to an absolute file URI
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// ExportYAML exports a variants model to YAML
func ExportYAML(model *domain.VariantsModel) ([]byte, error) {
	y := ModelYAML{
		Version:  "1",
		Name:     model.Name,
		Variants: make([]*VariantYAML, 0, len(model.Variants)),
	}
	for _, v := range model.Variants {
		y.Variants = append(y.Variants, exportVariant(v))
	}
	return yaml.Marshal(&y)
}

func exportVariant(v *domain.Variant) *VariantYAML {
	vy := &VariantYAML{Name: v.Name, URI: v.URI}
	if !v.Active {
		inactive := false
		vy.Active = &inactive
	}
	for _, c := range v.Children {
		vy.Variants = append(vy.Variants, exportVariant(c))
	}
	return vy
}
