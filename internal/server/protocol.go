package server

import "encoding/json"

// JSON-RPC 2.0 envelopes. The ID is kept raw so numeric and string
// request ids echo back exactly as the client sent them.

const jsonrpcVersion = "2.0"

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (r *request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Request parameter and result shapes.

type configureParams struct {
	// WorkspaceDirs are the project folders to include in sweeps.
	WorkspaceDirs []string `json:"workspaceDirs,omitempty"`
	// EnvironmentDirs are extra directories holding environments.
	EnvironmentDirs []string `json:"environmentDirs,omitempty"`
	// CacheDir enables the persistent resolve cache.
	CacheDir string `json:"cacheDir,omitempty"`
	// SkipProbe turns off interpreter spawning during sweeps.
	SkipProbe bool `json:"skipProbe,omitempty"`
	// ProbeTimeoutMS bounds each interpreter spawn, in milliseconds.
	// Zero keeps the default.
	ProbeTimeoutMS int64 `json:"probeTimeoutMs,omitempty"`
	// CondaExecutable and PoetryExecutable point discovery at manager
	// binaries PATH and the conventional locations would miss.
	CondaExecutable  string `json:"condaExecutable,omitempty"`
	PoetryExecutable string `json:"poetryExecutable,omitempty"`
}

type refreshParams struct {
	Kinds []string `json:"kinds,omitempty"`
	Paths []string `json:"paths,omitempty"`
}

type refreshResult struct {
	DurationMS int64 `json:"durationMs"`
}

type resolveParams struct {
	Path string `json:"path"`
}

type findParams struct {
	Path string `json:"path"`
}

type logParams struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
