package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"adaptkit/internal/domain"
)

// FromDirectory builds a model where each entry of root is a root variant.
// Subdirectories become composites of their files; hidden entries are skipped.
// Entries are visited in lexical order so the model is reproducible.
func FromDirectory(root string) (*domain.VariantsModel, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	model := &domain.VariantsModel{Name: filepath.Base(abs)}
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		path := filepath.Join(abs, e.Name())
		if !e.IsDir() {
			model.Variants = append(model.Variants, domain.NewLeaf(e.Name(), FileURI(path)))
			continue
		}

		v, err := dirVariant(path)
		if err != nil {
			return nil, err
		}
		model.Variants = append(model.Variants, v)
	}
	return model, nil
}

func dirVariant(dir string) (*domain.Variant, error) {
	v := domain.NewComposite(filepath.Base(dir))
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		v.Children = append(v.Children, domain.NewLeaf(filepath.ToSlash(rel), FileURI(p)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return v, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
