// Package portal persists the client-facing report registry backed by
// SQLite.
//
// It records clients, their properties, and finished reports, and mints
// expiring share tokens that back portal view links. The store owns its
// schema and refuses databases written by a different schema version.
package portal
