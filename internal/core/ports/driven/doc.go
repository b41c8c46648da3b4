// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The retrieval pipeline depends only on these interfaces. Concrete
// implementations live under internal/adapters/driven and are wired at
// startup; tests substitute in-memory doubles.
package driven
