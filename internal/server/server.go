package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/thoreinstein/pyscout/internal/cache"
	"github.com/thoreinstein/pyscout/internal/discovery"
	"github.com/thoreinstein/pyscout/internal/envs"
	"github.com/thoreinstein/pyscout/internal/locators"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/paths"
	"github.com/thoreinstein/pyscout/internal/reporter"
	"github.com/thoreinstein/pyscout/internal/resolve"
)

// Server speaks JSON-RPC 2.0 with one client over a byte stream,
// usually stdin/stdout. Requests are handled concurrently except
// refresh, which serializes with itself; all writes go through one
// mutex so frames never interleave.
type Server struct {
	in  *bufio.Reader
	out io.Writer

	writeMu sync.Mutex

	logger *slog.Logger

	// mu guards the mutable scan state; configure may swap any of it
	// between requests.
	mu        sync.Mutex
	registry  *locators.Registry
	scanner   *discovery.Scanner
	cfg       discovery.Config
	store     *cache.Store
	resolver  *resolve.Resolver
	known     []envs.Environment
	refreshMu sync.Mutex

	handlers sync.WaitGroup
}

// New wires a server over the given streams. The environment view is
// captured once; configure adjusts scope, not the process environment.
func New(in io.Reader, out io.Writer, env paths.Env, logger *slog.Logger) *Server {
	registry := locators.NewRegistry(env)
	store := cache.New("")
	s := &Server{
		in:       bufio.NewReader(in),
		out:      out,
		registry: registry,
		scanner:  discovery.New(registry, logger),
		logger:   logger,
		cfg:      discovery.Config{Env: env},
		store:    store,
	}
	s.resolver = resolve.New(registry, store, logger)
	return s
}

// SetProbeTimeout bounds each interpreter spawn during sweeps and
// resolution. Call before Serve; configure can override it per client.
func (s *Server) SetProbeTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.ProbeTimeout = d
	s.resolver.SetProbeTimeout(d)
}

// newResolverLocked rebuilds the resolver after the registry, store or
// logger changed. Caller holds s.mu.
func (s *Server) newResolverLocked() {
	s.resolver = resolve.New(s.registry, s.store, s.logger)
	s.resolver.SetProbeTimeout(s.cfg.ProbeTimeout)
}

// AttachClientLogs mirrors records at or above level to the client as
// `log` notifications, in addition to the existing handler. Call before
// Serve; the logger is rebuilt, not guarded.
func (s *Server) AttachClientLogs(level slog.Leveler) {
	handler := logging.NewMultiHandler(s.logger.Handler(), NewLogHandler(s, level))
	s.logger = slog.New(handler)
	s.mu.Lock()
	s.scanner = discovery.New(s.registry, s.logger)
	s.newResolverLocked()
	s.mu.Unlock()
}

// Serve reads frames until the stream closes or ctx is canceled.
// In-flight handlers are waited out before returning.
func (s *Server) Serve(ctx context.Context) error {
	defer s.handlers.Wait()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req request
		if err := json.Unmarshal(payload, &req); err != nil {
			s.reply(json.RawMessage("null"), nil, &rpcError{Code: codeParseError, Message: err.Error()})
			continue
		}

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.dispatch(ctx, &req)
		}()
	}
}

func (s *Server) dispatch(ctx context.Context, req *request) {
	result, rpcErr := s.handle(ctx, req)
	if req.isNotification() {
		if rpcErr != nil {
			s.logger.Warn("error handling notification", "method", req.Method, "error", rpcErr.Message)
		}
		return
	}
	s.reply(req.ID, result, rpcErr)
}

func (s *Server) handle(ctx context.Context, req *request) (any, *rpcError) {
	switch req.Method {
	case "configure":
		return s.handleConfigure(req.Params)
	case "refresh":
		return s.handleRefresh(ctx, req.Params)
	case "resolve":
		return s.handleResolve(ctx, req.Params)
	case "find":
		return s.handleFind(req.Params)
	case "clearCache":
		return s.handleClearCache()
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "unknown method " + req.Method}
	}
}

func (s *Server) handleConfigure(params json.RawMessage) (any, *rpcError) {
	var p configureParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Workspaces = p.WorkspaceDirs
	s.cfg.EnvironmentDirs = p.EnvironmentDirs
	s.cfg.SkipProbe = p.SkipProbe
	s.cfg.ProbeTimeout = time.Duration(p.ProbeTimeoutMS) * time.Millisecond
	s.resolver.SetProbeTimeout(s.cfg.ProbeTimeout)

	rebuild := false
	if p.CondaExecutable != s.cfg.Env.CondaExecutable ||
		p.PoetryExecutable != s.cfg.Env.PoetryExecutable {
		// The locator chain captured the environment view at build
		// time; new manager hints need a fresh chain.
		s.cfg.Env.CondaExecutable = p.CondaExecutable
		s.cfg.Env.PoetryExecutable = p.PoetryExecutable
		s.registry = locators.NewRegistry(s.cfg.Env)
		s.scanner = discovery.New(s.registry, s.logger)
		rebuild = true
	}
	if p.CacheDir != s.store.Dir() {
		s.store = cache.New(p.CacheDir)
		rebuild = true
	}
	if rebuild {
		s.newResolverLocked()
	}
	s.logger.Debug("configured",
		"workspaces", len(p.WorkspaceDirs),
		"environmentDirs", len(p.EnvironmentDirs),
		"cacheDir", p.CacheDir,
	)
	return struct{}{}, nil
}

func (s *Server) handleRefresh(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p refreshParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	scope := discovery.Scope{Paths: p.Paths}
	for _, k := range p.Kinds {
		kind := envs.Kind(k)
		if !envs.ValidKind(kind) {
			return nil, &rpcError{Code: codeInvalidParams, Message: "unknown kind " + k}
		}
		scope.Kinds = append(scope.Kinds, kind)
	}

	// One refresh at a time; a second request queues behind the first
	// rather than racing it.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	cfg := s.cfg
	scanner := s.scanner
	s.mu.Unlock()

	dedup := reporter.NewDedup(&notifier{server: s})
	start := time.Now()
	scanner.Refresh(ctx, cfg, scope, dedup)

	s.mu.Lock()
	s.known = dedup.Environments()
	s.mu.Unlock()

	return refreshResult{DurationMS: time.Since(start).Milliseconds()}, nil
}

func (s *Server) handleResolve(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p resolveParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "path is required"}
	}

	s.mu.Lock()
	resolver := s.resolver
	s.mu.Unlock()

	env, err := resolver.Resolve(ctx, p.Path)
	if err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}
	return env, nil
}

func (s *Server) handleFind(params json.RawMessage) (any, *rpcError) {
	var p findParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "path is required"}
	}

	s.mu.Lock()
	known := s.known
	s.mu.Unlock()

	env := resolve.Find(p.Path, known)
	if env == nil {
		// An explicit null; "not found" is an answer, not an error.
		return json.RawMessage("null"), nil
	}
	return env, nil
}

func (s *Server) handleClearCache() (any, *rpcError) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()

	if err := store.Clear(); err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}
	return struct{}{}, nil
}

func unmarshalParams(params json.RawMessage, v any) *rpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Server) reply(id json.RawMessage, result any, rpcErr *rpcError) {
	if id == nil {
		id = json.RawMessage("null")
	}
	s.write(response{JSONRPC: jsonrpcVersion, ID: id, Result: result, Error: rpcErr})
}

// Notify sends a server-initiated notification.
func (s *Server) Notify(method string, params any) {
	s.write(notification{JSONRPC: jsonrpcVersion, Method: method, Params: params})
}

func (s *Server) write(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := writeMessage(s.out, v); err != nil {
		s.logger.Error("writing frame", "error", err)
	}
}

// notifier streams refresh results to the client as they are found.
type notifier struct {
	server *Server
}

func (n *notifier) ReportEnvironment(env envs.Environment) {
	n.server.Notify("environment", env)
}

func (n *notifier) ReportManager(mgr envs.Manager) {
	n.server.Notify("manager", mgr)
}
