// Package domain defines the core business entities for Sercha Manuals.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Owner: The project, conversation or guest session a manual belongs to
//   - ManualSource: One uploaded file or instruction text
//   - ManualCacheRecord: The persisted per-owner manual
//   - VectorDocument: An embedded chunk of a manual
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
