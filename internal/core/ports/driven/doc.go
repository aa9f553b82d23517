// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BackendFactory: Builds a token-bound Backend for a session
//   - Backend: The knowledge base REST API, split per concern
//   - ObjectStore: Direct upload to a presigned object-store URL
//   - LocalFiles: Reads and describes files selected for upload
//   - IdentityProvider: Supplies the bearer token for the current session
//   - SessionStore: Persists bearer tokens between runs
//   - TokenInspector: Reads unverified claims from a bearer token
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - URLCache: Caches short-lived preview URLs. Without it every preview
//     resolves a fresh URL.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
