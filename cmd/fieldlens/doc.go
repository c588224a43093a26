// Package main hosts the fieldlens CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline
// runs, report listings, portal registration, configuration scaffolding,
// and readiness checks. It centralizes configuration resolution and
// logging setup so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
