// Package errors provides error handling conventions for pyscout.
//
// It re-exports the wrapping helpers from github.com/cockroachdb/errors
// so the rest of the module imports a single errors package, defines
// sentinel errors for common failure conditions, and carries the
// ExitError type used by the CLI layer to map failures to exit codes.
//
// Sentinel errors allow callers to check for specific conditions with
// [Is]:
//
//	if errors.Is(err, errors.ErrResolveFailed) {
//	    // inference exhausted, report to the one caller that asked
//	}
//
// Exit codes follow the usual Unix conventions: ExitSuccess (0),
// ExitUser (1) for bad input or configuration, ExitSystem (2) for I/O
// and permission failures.
package errors
