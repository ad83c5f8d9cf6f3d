package envs

// Kind identifies the category of a Python environment. The set is
// closed: locators only ever produce kinds listed here, and the wire
// protocol rejects anything else.
type Kind string

const (
	KindConda               Kind = "conda"
	KindPixi                Kind = "pixi"
	KindHomebrew            Kind = "homebrew"
	KindPyenv               Kind = "pyenv"
	KindPyenvVirtualEnv     Kind = "pyenvVirtualEnv"
	KindPipenv              Kind = "pipenv"
	KindPoetry              Kind = "poetry"
	KindUv                  Kind = "uv"
	KindVenvUv              Kind = "venvUv"
	KindVenv                Kind = "venv"
	KindVirtualEnv          Kind = "virtualEnv"
	KindVirtualEnvWrapper   Kind = "virtualEnvWrapper"
	KindMacPythonOrg        Kind = "macPythonOrg"
	KindMacCommandLineTools Kind = "macCommandLineTools"
	KindMacXCode            Kind = "macXCode"
	KindLinuxGlobal         Kind = "linuxGlobal"
	// KindGlobalPaths marks interpreters found on PATH or in other
	// global locations that no specific locator claimed.
	KindGlobalPaths Kind = "globalPaths"
	KindUnknown     Kind = "unknown"
)

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindConda,
		KindPixi,
		KindHomebrew,
		KindPyenv,
		KindPyenvVirtualEnv,
		KindPipenv,
		KindPoetry,
		KindUv,
		KindVenvUv,
		KindVenv,
		KindVirtualEnv,
		KindVirtualEnvWrapper,
		KindMacPythonOrg,
		KindMacCommandLineTools,
		KindMacXCode,
		KindLinuxGlobal,
		KindGlobalPaths,
		KindUnknown,
	}
}

// ValidKind reports whether k is one of the known kinds.
func ValidKind(k Kind) bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Architecture of an interpreter. A 32-bit Python can run on a 64-bit
// OS, so this is a property of the executable, not the machine.
type Architecture string

const (
	ArchX64 Architecture = "x64"
	ArchX86 Architecture = "x86"
)

// ManagerTool identifies the tool a Manager record describes.
type ManagerTool string

const (
	ToolConda  ManagerTool = "conda"
	ToolPoetry ManagerTool = "poetry"
	ToolPyenv  ManagerTool = "pyenv"
)
