package domain

// ElementKind identifies the concrete kind of an element.
// Each kind is owned by exactly one adapter.
type ElementKind string

// Element is an artifact-level fact extracted from a leaf variant
type Element interface {
	// Kind returns the concrete element kind
	Kind() ElementKind

	// Text returns a stable human-readable rendering of the element
	Text() string
}

// ElementRecord is an element flattened for reports and storage
type ElementRecord struct {
	Adapter string      `json:"adapter" yaml:"adapter"`
	Type    ElementKind `json:"kind" yaml:"kind"`
	Value   string      `json:"text" yaml:"text"`
}

// NewElementRecord flattens an element attributed to the given adapter
func NewElementRecord(adapter string, el Element) ElementRecord {
	return ElementRecord{
		Adapter: adapter,
		Type:    el.Kind(),
		Value:   el.Text(),
	}
}

// Kind implements Element
func (r ElementRecord) Kind() ElementKind {
	return r.Type
}

// Text implements Element
func (r ElementRecord) Text() string {
	return r.Value
}
