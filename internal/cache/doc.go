// Package cache persists resolved interpreter records between runs.
// Resolving an interpreter can mean spawning it, which costs tens of
// milliseconds per executable; the cache turns repeat resolutions into
// a stat call. Entries are validated against filesystem fingerprints
// of every path that contributed to the record, so any change to the
// executable, its aliases or the alias targets invalidates the entry.
package cache
