// Package preflight provides readiness checks for the external services
// and filesystem paths a report run depends on.
//
// The CLI "fieldlens status" command runs RunAll and displays each
// result; the run command can use individual checks to fail fast before
// any analysis call is spent.
package preflight
