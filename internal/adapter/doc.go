// Package adapter implements element extraction adapters for adaptkit.
//
// Adapters are pluggable components that decide whether they apply to an
// artifact URI and extract elements from it. Each adapter registers with the
// central Registry through a Registration: a Descriptor (id, name, icon, owned
// element kinds) plus a Factory.
//
// # Adapter Registry
//
// Registry is an explicit registration table populated at process start.
// Registration order is the enumeration order for resolution and listing.
// Adapters are instantiated once, on first use; a factory failure leaves the
// adapter out of the universe. Element kinds must be unique across adapters,
// which lets AdapterFor map an element back to its owner with a single lookup.
//
// # Resolution
//
// Resolver walks a variant tree depth-first and collects, in order of first
// discovery, every adapter applicable to at least one leaf URI. An adapter
// that already matched is not queried again for later leaves.
//
// # Extraction
//
// Extractor walks the active part of a variant tree and invokes the resolved
// adapters on every leaf, concatenating elements in traversal order and
// adapter order within a leaf. At model level each active root variant is one
// unit of work: progress is reported per unit and cancellation is checked
// between units only.
//
// Malformed URIs and adapter failures are logged and skipped; they never abort
// a run.
//
// # Core Adapters
//
// Text extracts trimmed lines. Nmap reads nmap XML reports into hosts and open
// services. SSHKeys fingerprints authorized_keys entries. Go lists source
// declarations through tree-sitter. JSON evaluates JSONPath selectors. YAML
// flattens documents into scalar key paths. HCL lists blocks and attributes.
// All of them read artifacts through a shared, cached SourceReader.
package adapter
