package locators

import (
	"context"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

// Locator is one environment family.
type Locator interface {
	// Kind is the primary kind this locator produces.
	Kind() envs.Kind
	// Categories lists every kind this locator can produce. Some
	// produce several (a pyenv tree holds plain installs, virtualenvs
	// and conda roots).
	Categories() []envs.Kind
	// Confirm inspects a candidate and returns the environment record
	// when the candidate belongs to this family, nil otherwise.
	// Confirm must not spawn processes.
	Confirm(c *Candidate) *envs.Environment
	// Enumerate walks the locations this family manages and reports
	// every environment and manager found there. Families without own
	// locations report nothing; their environments arrive as
	// candidates from the shared scanners instead.
	Enumerate(ctx context.Context, rep reporter.Interface)
}
