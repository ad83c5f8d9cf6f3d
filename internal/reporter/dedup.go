package reporter

import (
	"sync"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// Dedup sits in front of another reporter and guarantees each
// environment and manager is forwarded at most once per scan. Identity
// is every path known to reach the interpreter: the primary executable,
// each alias, the prefix, and the canonical form of each, so /bin and
// /usr/bin sightings of one interpreter collapse even when the symlink
// is in a parent directory rather than the file itself. A second
// sighting merges into the first record instead of being forwarded;
// downstream sinks that want the merged view read Environments() after
// the scan.
type Dedup struct {
	next Interface

	mu       sync.Mutex
	index    map[string]int
	reported []envs.Environment
	managers map[string]struct{}
}

func NewDedup(next Interface) *Dedup {
	return &Dedup{
		next:     next,
		index:    make(map[string]int),
		managers: make(map[string]struct{}),
	}
}

func (d *Dedup) ReportEnvironment(env envs.Environment) {
	keys := identityKeys(&env)
	if len(keys) == 0 {
		return
	}

	d.mu.Lock()
	at, dup := d.lookup(keys)
	if !dup {
		at = len(d.reported)
		d.reported = append(d.reported, env)
		for _, key := range keys {
			d.index[key] = at
		}
		d.mu.Unlock()

		// Forward outside the lock; the sink may block on I/O.
		d.next.ReportEnvironment(env)
		return
	}

	merged, errFilled := d.merge(at, env, keys)
	d.mu.Unlock()

	// Deriving the merged record's keys touches the filesystem; keep
	// that out of the lock too.
	mergedKeys := identityKeys(&merged)
	d.mu.Lock()
	for _, key := range mergedKeys {
		d.index[key] = at
	}
	d.mu.Unlock()

	if errFilled {
		// The first sighting went downstream without the failure
		// annotation; send the corrected record.
		d.next.ReportEnvironment(merged)
	}
}

func (d *Dedup) ReportManager(mgr envs.Manager) {
	key := string(mgr.Tool) + "\x00" + mgr.Executable

	d.mu.Lock()
	if _, dup := d.managers[key]; dup {
		d.mu.Unlock()
		return
	}
	d.managers[key] = struct{}{}
	d.mu.Unlock()

	d.next.ReportManager(mgr)
}

// Seen reports whether path is already known to reach a reported
// environment. Scanners use it to skip candidates cheaply before the
// expensive identification work.
func (d *Dedup) Seen(path string) bool {
	if path == "" {
		return false
	}
	// Canonicalization stats the path; do it before taking the lock.
	candidates := []string{fileutil.NormCase(path)}
	if canonical := fileutil.Canonical(path); canonical != candidates[0] {
		candidates = append(candidates, canonical)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, key := range candidates {
		if _, ok := d.index[key]; ok {
			return true
		}
	}
	return false
}

// Environments returns the merged records of the scan so far.
func (d *Dedup) Environments() []envs.Environment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]envs.Environment, len(d.reported))
	copy(out, d.reported)
	return out
}

func (d *Dedup) lookup(keys []string) (int, bool) {
	for _, key := range keys {
		if at, ok := d.index[key]; ok {
			return at, true
		}
	}
	return 0, false
}

// merge folds a later sighting into an existing record: the alias set
// grows and empty fields fill in, but known fields are never replaced.
// The earlier sighting came from a higher-priority source. Returns the
// merged record and whether it gained an error annotation the already
// forwarded record lacked. Called with d.mu held; must not touch the
// filesystem.
func (d *Dedup) merge(at int, env envs.Environment, keys []string) (envs.Environment, bool) {
	known := &d.reported[at]

	b := envs.FromEnvironment(*known).Symlinks(env.Symlinks...)
	if known.Executable == "" && env.Executable != "" {
		b.Executable(env.Executable)
	} else if env.Executable != "" {
		b.Symlinks(env.Executable)
	}
	if known.Version == "" {
		b.Version(env.Version)
	}
	if known.Prefix == "" {
		b.Prefix(env.Prefix)
	}
	if known.Arch == "" {
		b.Arch(env.Arch)
	}
	if known.Name == "" {
		b.Name(env.Name)
	}
	if known.DisplayName == "" {
		b.DisplayName(env.DisplayName)
	}
	if known.Project == "" {
		b.Project(env.Project)
	}
	if known.Manager == nil {
		b.Manager(env.Manager)
	}
	errFilled := known.Error == "" && env.Error != ""
	if errFilled {
		b.Error(env.Error)
	}
	merged := b.Build()
	d.reported[at] = merged

	for _, key := range keys {
		d.index[key] = at
	}
	return merged, errFilled
}

// identityKeys lists every string under which the environment should
// be indexed: each known path plus its canonical form. Canonicalizing
// resolves symlinks anywhere in the path, so an interpreter seen as
// /bin/python3 and as /usr/bin/python3 yields one shared key.
func identityKeys(env *envs.Environment) []string {
	var keys []string
	add := func(path string) {
		if path == "" {
			return
		}
		path = fileutil.NormCase(path)
		for _, k := range keys {
			if k == path {
				return
			}
		}
		keys = append(keys, path)
	}
	addForms := func(path string) {
		if path == "" {
			return
		}
		add(path)
		add(fileutil.Canonical(path))
	}

	addForms(env.Key())
	addForms(env.Prefix)
	for _, link := range env.Symlinks {
		addForms(link)
	}
	return keys
}
