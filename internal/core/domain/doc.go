// Package domain defines the core business entities for kbhub.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Session: The resolved identity and role set of the signed-in user
//   - FileRecord: A document known to the knowledge base
//   - Tag: A coloured label that can be attached to files
//   - SearchResult: A semantic search hit referencing a file by name
//   - Upload types: Local selections, credentials and pipeline state
//   - Admin types: Stats, user directory and audit log entries
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
