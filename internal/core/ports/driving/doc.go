// Package driving defines the interfaces through which callers drive the
// core: the CLI and the MCP tool server both talk to these, never to
// services or adapters directly.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
