package python

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/pyscout/internal/errors"
)

// DefaultProbeTimeout bounds a single interpreter spawn. Probing is the
// most expensive step in resolution and a hung interpreter must never
// stall the whole scan.
const DefaultProbeTimeout = 10 * time.Second

// ProbeResult is the interpreter's self-report.
type ProbeResult struct {
	Version    string `json:"versionInfo"`
	SysPrefix  string `json:"sysPrefix"`
	Executable string `json:"executable"`
	Is64Bit    bool   `json:"is64Bit"`
}

// probeScript prints a sentinel line followed by a JSON document. The
// sentinel separates our payload from anything a sitecustomize or a
// chatty startup hook writes to stdout before us.
const probeScript = `import json,sys,struct
print("%s")
print(json.dumps({"versionInfo":".".join(map(str,sys.version_info[:3])),"sysPrefix":sys.prefix,"executable":sys.executable,"is64Bit":struct.calcsize("P")==8}))`

// ProbeWithTimeout runs the interpreter with a per-spawn deadline and
// parses its self-report. It is the last resort of version resolution;
// callers should exhaust file based inference first.
func ProbeWithTimeout(ctx context.Context, executable string, timeout time.Duration) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sentinel := uuid.NewString()
	script := strings.Replace(probeScript, "%s", sentinel, 1)

	// -I isolates the spawn from PYTHONPATH and user site-packages so
	// the report describes the interpreter, not the caller's shell.
	cmd := exec.CommandContext(ctx, executable, "-I", "-c", script)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "probing %s", executable)
		}
		return nil, errors.Wrapf(err, "probing %s", executable)
	}

	_, payload, found := strings.Cut(string(out), sentinel)
	if !found {
		return nil, errors.Newf("probing %s: interpreter output missing sentinel", executable)
	}
	var result ProbeResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &result); err != nil {
		return nil, errors.Wrapf(err, "probing %s: malformed self report", executable)
	}
	return &result, nil
}
