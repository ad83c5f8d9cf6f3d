package discovery

import (
	"context"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/locators"
)

// Scope narrows a refresh. Zero value means everything.
type Scope struct {
	// Kinds limits the sweep to locators that can produce these kinds.
	Kinds []envs.Kind
	// Paths limits the sweep to explicit locations; entries may be
	// glob patterns with ** support. Files become candidates, matched
	// directories are scanned as environment prefixes.
	Paths []string
}

func (sc Scope) zero() bool {
	return len(sc.Kinds) == 0 && len(sc.Paths) == 0
}

// Refresh is Discover narrowed to a scope. A kind scope runs only the
// matching locators' own enumerations; a path scope skips the global
// phases entirely and inspects just the named locations.
func (s *Scanner) Refresh(ctx context.Context, cfg Config, scope Scope, rep Reporter) Summary {
	if scope.zero() {
		return s.Discover(ctx, cfg, rep)
	}

	var summary Summary
	start := time.Now()

	if len(scope.Kinds) > 0 {
		lstart := time.Now()
		s.enumerateLocators(ctx, s.registry.ForKinds(scope.Kinds), rep)
		summary.Locators = time.Since(lstart)
	}
	if len(scope.Paths) > 0 {
		s.scanScopedPaths(ctx, scope.Paths, rep)
	}

	summary.Total = time.Since(start)
	return summary
}

func (s *Scanner) scanScopedPaths(ctx context.Context, patterns []string, rep Reporter) {
	for _, pattern := range patterns {
		if ctx.Err() != nil {
			return
		}
		matches := []string{pattern}
		if containsGlob(pattern) {
			expanded, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				s.logger.Warn("invalid refresh glob", "pattern", pattern, "error", err)
				continue
			}
			matches = expanded
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if info.IsDir() {
				s.scanPrefix(match, rep, nil)
				continue
			}
			s.identify(locators.NewCandidate(match), envs.KindUnknown, rep, nil)
		}
	}
}

func containsGlob(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
