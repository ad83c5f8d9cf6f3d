package envs

// Builder assembles an Environment while keeping its invariants: the
// symlink set always contains the primary executable, stays sorted and
// duplicate free, and the primary executable is the shortest alias.
type Builder struct {
	env Environment
}

// NewBuilder starts a record of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{env: Environment{Kind: kind}}
}

// FromEnvironment starts a builder seeded with an existing record.
func FromEnvironment(env Environment) *Builder {
	return &Builder{env: env}
}

func (b *Builder) DisplayName(name string) *Builder {
	b.env.DisplayName = name
	return b
}

func (b *Builder) Name(name string) *Builder {
	b.env.Name = name
	return b
}

func (b *Builder) Executable(exe string) *Builder {
	b.env.Executable = exe
	return b
}

func (b *Builder) Version(version string) *Builder {
	b.env.Version = version
	return b
}

func (b *Builder) Prefix(prefix string) *Builder {
	b.env.Prefix = prefix
	return b
}

func (b *Builder) Arch(arch Architecture) *Builder {
	b.env.Arch = arch
	return b
}

// Symlinks adds known aliases. Duplicates are dropped at Build time.
func (b *Builder) Symlinks(links ...string) *Builder {
	b.env.Symlinks = append(b.env.Symlinks, links...)
	return b
}

func (b *Builder) Project(project string) *Builder {
	b.env.Project = project
	return b
}

func (b *Builder) Manager(manager *Manager) *Builder {
	b.env.Manager = manager
	return b
}

func (b *Builder) Error(annotation string) *Builder {
	b.env.Error = annotation
	return b
}

// Build finalizes the record. The executable is folded into the symlink
// set, the set is normalized, and the primary executable is replaced by
// the shortest alias.
func (b *Builder) Build() Environment {
	env := b.env
	all := env.Symlinks
	if env.Executable != "" {
		all = append(all, env.Executable)
	}
	env.Symlinks = normalizePaths(all)
	if env.Executable != "" {
		env.Executable = ShortestPath(env.Symlinks)
	}
	return env
}
