// Package envs defines the shared data model for discovered Python
// environments: the closed set of environment kinds, the environment
// record itself, and the manager (tool) record.
//
// Records typically flow from a locator through the dedup reporter to a
// sink. The Builder keeps the record invariants intact: the symlink set
// is sorted and duplicate free, always contains the primary executable,
// and the primary executable is the shortest known alias.
package envs
