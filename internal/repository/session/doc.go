// Package session implements persistence for the dialog-visibility flags.
//
// The FileRepository stores and loads the flags as JSON on disk so an open
// prompt survives a restart of the monitor, and exposes a Repository
// interface that the server service depends on.
package session
