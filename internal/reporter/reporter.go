package reporter

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/thoreinstein/pyscout/internal/envs"
)

// Interface is the sink side of a discovery scan. Implementations must
// be safe for concurrent use; scanners call them from many goroutines.
type Interface interface {
	ReportEnvironment(env envs.Environment)
	ReportManager(mgr envs.Manager)
}

// Collector accumulates everything reported. Used by the CLI one-shot
// commands and by tests.
type Collector struct {
	mu           sync.Mutex
	environments []envs.Environment
	managers     []envs.Manager
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) ReportEnvironment(env envs.Environment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.environments = append(c.environments, env)
}

func (c *Collector) ReportManager(mgr envs.Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.managers = append(c.managers, mgr)
}

// Environments returns a copy of everything reported so far.
func (c *Collector) Environments() []envs.Environment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]envs.Environment, len(c.environments))
	copy(out, c.environments)
	return out
}

// Managers returns a copy of every manager reported so far.
func (c *Collector) Managers() []envs.Manager {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]envs.Manager, len(c.managers))
	copy(out, c.managers)
	return out
}

// HumanWriter streams human-readable records to w as they arrive.
type HumanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewHumanWriter(w io.Writer) *HumanWriter {
	return &HumanWriter{w: w}
}

func (h *HumanWriter) ReportEnvironment(env envs.Environment) {
	h.mu.Lock()
	defer h.mu.Unlock()
	io.WriteString(h.w, env.String()+"\n")
}

func (h *HumanWriter) ReportManager(mgr envs.Manager) {
	h.mu.Lock()
	defer h.mu.Unlock()
	io.WriteString(h.w, "Manager ("+string(mgr.Tool)+")\n  Executable  : "+mgr.Executable+"\n")
	if mgr.Version != "" {
		io.WriteString(h.w, "  Version     : "+mgr.Version+"\n")
	}
	io.WriteString(h.w, "\n")
}

// JSONWriter streams one JSON document per record to w.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

func (j *JSONWriter) ReportEnvironment(env envs.Environment) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enc.Encode(struct {
		Environment envs.Environment `json:"environment"`
	}{env})
}

func (j *JSONWriter) ReportManager(mgr envs.Manager) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enc.Encode(struct {
		Manager envs.Manager `json:"manager"`
	}{mgr})
}
