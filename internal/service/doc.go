// Package service implements the extraction workflow for adaptkit.
//
// This package coordinates the adapter registry, the resolver and the
// extractor with the repository layer, and publishes progress events.
//
// # Services
//
// ExtractionService runs a variants model end to end: it resolves the
// applicable adapters, extracts one unit per active root variant,
// attributes every element to its owning adapter and stores the report.
// Runs that are canceled or exceed the configured timeout stop at the next
// unit boundary and are still stored, flagged as canceled.
//
// # Event System
//
// Runs publish events via EventBus: run start, resolved adapters, each unit
// starting and completing, and the final outcome. Slow subscribers miss
// events rather than blocking extraction.
package service
