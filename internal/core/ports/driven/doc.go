// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ManualStore: Per-owner manual record and vector documents, committed together
//   - VectorStore: Per-owner vector documents and cosine top-K query
//   - ConversationDirectory: Read-only view of conversations and projects
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingestion and retrieval fail
//     with domain.ErrEmbeddingUnavailable.
//   - TextExtractor: Turns a file into text. Only the CLI uses extractors; other callers
//     hand the core already-extracted text.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
