// Package textutil provides text helpers for filename sanitization and
// display formatting.
//
// The primary use cases are:
//   - Sanitizing property addresses and archive stems into safe path segments
//   - Deriving a human-readable address from an archive filename
package textutil
