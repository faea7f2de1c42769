// Package app wires configuration, the API client, the snapshot store, and
// the background poller together and boots the TUI.
package app
