// Package action implements the filterwatch-action command: it pushes one
// operator trigger to a running server, retrying until the server accepts it
// or the context is canceled. It exists for scripted and headless setups
// where no browser is driving the dialogs.
package action
