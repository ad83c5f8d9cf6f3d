package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/pkg/fileutil"
)

// entryFormat is bumped when the on-disk shape changes; old files are
// simply never read again and removed by Clear.
const entryFormat = "1"

// Fingerprint pins an entry to the state of one contributing path.
type Fingerprint struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
	Size    int64     `json:"size"`
}

// Entry is one cached resolution.
type Entry struct {
	Environment  envs.Environment `json:"environment"`
	Fingerprints []Fingerprint    `json:"fingerprints"`
}

// Store is the resolve cache: an in-memory map in front of one JSON
// file per executable. A Store with no directory is valid and caches
// in memory only.
type Store struct {
	dir string

	mu  sync.RWMutex
	mem map[string]Entry
}

// New opens a store rooted at dir. Pass "" for a memory-only store.
func New(dir string) *Store {
	return &Store{dir: dir, mem: make(map[string]Entry)}
}

// Dir returns the backing directory, "" when memory-only.
func (s *Store) Dir() string { return s.dir }

// Get returns the cached record for an executable when its
// fingerprints still match the filesystem. A stale entry is dropped
// from memory and disk before reporting a miss.
func (s *Store) Get(executable string) (*envs.Environment, bool) {
	s.mu.RLock()
	entry, ok := s.mem[executable]
	s.mu.RUnlock()

	if !ok {
		disk, err := s.read(executable)
		if err != nil {
			return nil, false
		}
		entry = *disk
	}

	if !valid(entry.Fingerprints) {
		s.invalidate(executable)
		return nil, false
	}

	s.mu.Lock()
	s.mem[executable] = entry
	s.mu.Unlock()
	env := entry.Environment
	return &env, true
}

// Put records a resolution keyed by its primary executable,
// fingerprinting every alias and alias target so any repoint or
// reinstall invalidates it.
func (s *Store) Put(env envs.Environment) error {
	if env.Executable == "" {
		return errors.New("cache: environment has no executable")
	}
	entry := Entry{
		Environment:  env,
		Fingerprints: fingerprints(&env),
	}

	s.mu.Lock()
	s.mem[env.Executable] = entry
	s.mu.Unlock()

	if s.dir == "" {
		return nil
	}
	if err := paths.EnsureDir(s.dir, paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "cache: creating store directory")
	}

	file := s.file(env.Executable)
	lock := flock.New(file + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "cache: locking entry")
	}
	defer lock.Unlock()

	if err := fileutil.AtomicWriteJSON(file, entry); err != nil {
		return errors.Wrap(err, "cache: writing entry")
	}
	return nil
}

// Clear drops everything, memory and disk. A memory-only store just
// forgets.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.mem = make(map[string]Entry)
	s.mu.Unlock()

	if s.dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.Wrap(err, "cache: clearing store")
	}
	return nil
}

func (s *Store) file(executable string) string {
	digest := sha256.Sum256([]byte(executable))
	return filepath.Join(s.dir, hex.EncodeToString(digest[:])[:16]+"."+entryFormat+".json")
}

func (s *Store) read(executable string) (*Entry, error) {
	if s.dir == "" {
		return nil, errors.Wrap(os.ErrNotExist, "cache: memory only")
	}
	data, err := fileutil.ReadFileWithLimit(s.file(executable), fileutil.MaxFileSize)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "cache: malformed entry")
	}
	if entry.Environment.Executable != executable {
		// Hash prefix collision or a moved store; treat as a miss.
		return nil, errors.New("cache: entry key mismatch")
	}
	return &entry, nil
}

func (s *Store) invalidate(executable string) {
	s.mu.Lock()
	delete(s.mem, executable)
	s.mu.Unlock()
	if s.dir != "" {
		os.Remove(s.file(executable))
	}
}

// fingerprints covers the executable, every alias, and the resolved
// target of each alias. Pinning the target means repointing an alias
// at a different interpreter invalidates the entry even though the
// alias path itself is unchanged.
func fingerprints(env *envs.Environment) []Fingerprint {
	seen := make(map[string]struct{})
	var prints []Fingerprint
	add := func(path string) {
		if path == "" {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		if info, err := os.Stat(path); err == nil {
			prints = append(prints, Fingerprint{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		} else {
			// Record absence too: a path that appears later is as much
			// a change as one that mutates.
			prints = append(prints, Fingerprint{Path: path})
		}
	}

	add(env.Executable)
	for _, link := range env.Symlinks {
		add(link)
		add(fileutil.ResolveSymlink(link))
	}
	return prints
}

func valid(prints []Fingerprint) bool {
	if len(prints) == 0 {
		return false
	}
	for _, fp := range prints {
		info, err := os.Stat(fp.Path)
		if err != nil {
			if fp.ModTime.IsZero() && fp.Size == 0 {
				continue
			}
			return false
		}
		if fp.ModTime.IsZero() && fp.Size == 0 {
			return false
		}
		if !info.ModTime().Equal(fp.ModTime) || info.Size() != fp.Size {
			return false
		}
	}
	return true
}
