// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - AuthorizationListener: Browser consent and loopback callback
//   - TokenExchanger: Authorization-code and refresh-token grants
//   - LibraryAPI: Paginated reads and chunked writes against the Web API
//   - DumpStore: CSV dump persistence
//
// # Optional Interfaces
//
//   - Journal: Records finished units of a forced run so it can be resumed.
//     A memory journal is used when persistence is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
