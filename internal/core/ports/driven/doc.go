// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorCollection: the external vector store (upsert/get/query/drop)
//   - EmbeddingService: generates vector embeddings for content
//   - LLMService: prompt-in, text-out generation capability
//
// # Optional Interfaces
//
//   - PromptStore: user-customisable prompt templates; when nil, services
//     fall back to embedded defaults
//   - TextExtractor: converts binary files to plain text for the
//     file-based tool entry points
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
