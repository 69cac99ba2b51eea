// Package repository defines the data access interfaces for adaptkit.
//
// This package provides the repository abstraction layer for persisting
// and retrieving extraction runs. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface stores one domain.Report per run and hands it
// back unchanged: units keep their root-variant order and elements keep
// the order the extractor produced them in.
//
// # SQLite Implementation
//
// The sqlite implementation uses the pure-Go modernc.org/sqlite driver
// with WAL mode for file databases. Runs, units and elements live in
// three tables tied together with cascading foreign keys, and each
// SaveRun is a single transaction.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
