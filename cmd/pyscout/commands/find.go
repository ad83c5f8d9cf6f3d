package commands

import (
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pyscout/internal/discovery"
	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/reporter"
)

var (
	findJSON        bool
	findKinds       []string
	findInteractive bool
	findSkipProbe   bool
)

func init() {
	findCmd.Flags().BoolVar(&findJSON, "json", false,
		"output environments as JSON, one object per line")
	findCmd.Flags().StringSliceVar(&findKinds, "kind", nil,
		"only scan for the given kinds (e.g. conda, pyenv, venv)")
	findCmd.Flags().BoolVarP(&findInteractive, "interactive", "i", false,
		"pick one environment with a fuzzy finder")
	findCmd.Flags().BoolVar(&findSkipProbe, "skip-probe", false,
		"never spawn interpreters; unidentified executables stay unknown")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find [workspace...]",
	Short: "Discover Python environments",
	Long: `Run a discovery sweep and print every environment found.

Without arguments the sweep covers the standard machine-wide locations:
manager-owned directories (pyenv, conda, pixi, poetry, pipenv, uv),
global virtual environment directories, and PATH. Workspace directories
given as arguments are scanned as well, including their immediate
children and .venv/.pixi conventions.

With --kind the sweep narrows to the locators that own those kinds.`,
	Example: `  pyscout find
  pyscout find ~/src/myproject
  pyscout find --kind conda,pyenv
  pyscout find --json
  pyscout find -i`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if findJSON && findInteractive {
			return errors.New("flags --json and --interactive are mutually exclusive")
		}
		return nil
	},
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	env := discoveryEnv()
	registry := locators.NewRegistry(env)
	scanner := discovery.New(registry, logger)

	dcfg := discovery.Config{
		Env:             env,
		Workspaces:      append(append([]string{}, cfg.WorkspaceDirs...), args...),
		EnvironmentDirs: cfg.EnvironmentDirs,
		SkipProbe:       findSkipProbe || cfg.SkipProbe,
		ProbeTimeout:    cfg.ProbeTimeout,
	}

	scope, err := findScope()
	if err != nil {
		return err
	}

	// Collect and dedup first; streaming writers would interleave with
	// scan order, which is nondeterministic.
	dedup := reporter.NewDedup(reporter.NewCollector())
	summary := scanner.Refresh(cmd.Context(), dcfg, scope, dedup)

	environments := dedup.Environments()
	logger.Info("discovery finished",
		"environments", len(environments),
		"duration", summary.Total)

	if findInteractive {
		return pickEnvironment(cmd, environments)
	}

	out := cmd.OutOrStdout()
	var sink reporter.Interface
	if findJSON {
		sink = reporter.NewJSONWriter(out)
	} else {
		sink = reporter.NewHumanWriter(out)
	}
	for _, e := range environments {
		sink.ReportEnvironment(e)
	}
	return nil
}

// findScope translates the --kind flag into a refresh scope.
func findScope() (discovery.Scope, error) {
	if len(findKinds) == 0 {
		return discovery.Scope{}, nil
	}

	var invalid []string
	kinds := make([]envs.Kind, 0, len(findKinds))
	for _, k := range findKinds {
		kind := envs.Kind(k)
		if !envs.ValidKind(kind) {
			invalid = append(invalid, k)
			continue
		}
		kinds = append(kinds, kind)
	}

	if len(invalid) > 0 {
		err := errors.Newf("invalid kind(s): %s", strings.Join(invalid, ", "))
		return discovery.Scope{}, errors.NewUserError(err, "run 'pyscout find --help' to see valid kinds")
	}

	return discovery.Scope{Kinds: kinds}, nil
}

func pickEnvironment(cmd *cobra.Command, environments []envs.Environment) error {
	out := cmd.OutOrStdout()
	if len(environments) == 0 {
		fmt.Fprintln(out, "No environments found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		environments,
		func(i int) string {
			e := environments[i]
			label := e.Executable
			if label == "" {
				label = e.Prefix
			}
			return fmt.Sprintf("%s %s (%s)", e.Version, label, e.Kind)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return environments[i].String()
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive selection failed")
	}

	fmt.Fprint(out, environments[idx].String())
	return nil
}
