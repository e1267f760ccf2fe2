// Package linksfinder discovers every URL of a site reachable from a starting
// address that shares that address as a prefix.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, slog/, prometheus/).
package linksfinder
