// Package server exposes discovery and resolution over JSON-RPC 2.0
// with Content-Length framing, the way editor tooling expects to talk
// to a long-lived backend over stdio.
package server
