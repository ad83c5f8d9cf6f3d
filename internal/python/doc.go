// Package python knows how CPython installations and virtual
// environments look on disk: the pyvenv.cfg manifest, the version
// constant in the shipped C headers, the naming conventions for
// interpreter executables, and, as a last resort, how to ask an
// interpreter to describe itself.
package python
