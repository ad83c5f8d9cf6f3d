// Package discovery runs the full environment sweep: every locator's
// own locations, the shared virtual environment directories, PATH, and
// the configured workspace folders, all in parallel. Results stream
// through a dedup gate as they are found; the order environments
// arrive in is not significant, their kind assignment is.
package discovery
