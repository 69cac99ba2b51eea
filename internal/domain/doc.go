// Package domain defines the core domain types for adaptkit.
//
// This package contains the artifact model that adapters operate on and the
// values they produce.
//
// # Variants
//
// Variant is a node in an artifact tree. A leaf variant points at an artifact
// through its URI; a composite variant groups ordered child variants and never
// carries a URI of its own. Inactive variants, and everything below them, are
// ignored during extraction.
//
// VariantsModel owns an ordered list of root variants. Each active root is one
// unit of work during model-level extraction.
//
// # Elements
//
// Element is an artifact-level fact extracted from a leaf variant by an adapter.
// Every element reports an ElementKind, which identifies the adapter that owns
// it. ElementRecord is the flattened, adapter-attributed form used in reports
// and persistence.
//
// # Reports
//
// Report captures one extraction run: the resolved adapters, one UnitReport per
// processed root variant, and whether the run was canceled.
//
// # Design Principles
//
// - No database or external dependencies
// - Read-only during traversal; the model is owned by the caller
package domain
