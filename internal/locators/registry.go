package locators

import (
	"runtime"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/paths"
)

// Registry is the ordered locator chain. It is immutable after
// construction and safe to share across goroutines.
type Registry struct {
	locators []Locator
}

// NewRegistry builds the chain for the current OS: version and package
// managers first, tool-created virtual environments next, OS-provided
// interpreters last.
func NewRegistry(env paths.Env) *Registry {
	return newRegistryFor(env, runtime.GOOS)
}

func newRegistryFor(env paths.Env, goos string) *Registry {
	var chain []Locator

	chain = append(chain, NewPyenv(env))
	if goos != "windows" {
		chain = append(chain, NewHomebrew(env, goos))
	}
	chain = append(chain,
		NewConda(env),
		NewPixi(),
		NewUv(env),
		NewPoetry(env),
		NewPipenv(),
		NewVirtualEnvWrapper(env),
		NewVenvUv(env),
		NewVenv(),
		NewVirtualEnv(),
	)
	switch goos {
	case "darwin":
		chain = append(chain, NewMacPythonOrg(env), NewMacCommandLineTools(env), NewMacXCode(env))
	case "linux":
		chain = append(chain, NewLinuxGlobal(env))
	}
	return &Registry{locators: chain}
}

// Locators returns the chain in identification order.
func (r *Registry) Locators() []Locator {
	return r.locators
}

// Identify walks the chain and returns the first confirmation, or nil
// when no family claims the candidate.
func (r *Registry) Identify(c *Candidate) *envs.Environment {
	for _, loc := range r.locators {
		if env := loc.Confirm(c); env != nil {
			return env
		}
	}
	return nil
}

// ForKinds returns the locators whose categories intersect kinds, in
// chain order. An empty filter selects the whole chain.
func (r *Registry) ForKinds(kinds []envs.Kind) []Locator {
	if len(kinds) == 0 {
		return r.locators
	}
	want := make(map[envs.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	var out []Locator
	for _, loc := range r.locators {
		for _, cat := range loc.Categories() {
			if _, ok := want[cat]; ok {
				out = append(out, loc)
				break
			}
		}
	}
	return out
}
