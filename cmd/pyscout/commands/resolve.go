package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pyscout/internal/cache"
	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/resolve"
)

var (
	resolveJSON    bool
	resolveNoCache bool
)

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false,
		"output the environment as JSON")
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false,
		"bypass the resolve cache")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve one interpreter or environment directory",
	Long: `Identify the environment a Python executable or environment directory
belongs to and print its full metadata.

Resolution prefers cheap filesystem inference. When that leaves version,
prefix or architecture unknown, the interpreter is spawned once with a
bounded timeout to fill the gaps, and the result is cached.`,
	Example: `  pyscout resolve /usr/bin/python3
  pyscout resolve ~/src/myproject/.venv
  pyscout resolve ~/.pyenv/versions/3.12.1 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	registry := locators.NewRegistry(discoveryEnv())

	cacheDir := cfg.CacheDir
	if resolveNoCache {
		cacheDir = ""
	}
	resolver := resolve.New(registry, cache.New(cacheDir), logger)
	resolver.SetProbeTimeout(cfg.ProbeTimeout)

	environment, err := resolver.Resolve(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, errors.ErrResolveFailed) || errors.Is(err, errors.ErrNotExecutable) {
			return errors.NewUserError(err, "pass a python executable or an environment directory")
		}
		return errors.NewExitError(err, errors.ExitSystem)
	}

	out := cmd.OutOrStdout()
	if resolveJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(environment)
	}

	fmt.Fprint(out, environment.String())
	return nil
}
