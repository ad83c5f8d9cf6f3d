// Package reporter carries discovery results from the scanners to
// their consumers. Scans run concurrently and the same interpreter is
// routinely found through several routes, so every pipeline puts the
// Dedup gate in front of the real sink.
package reporter
