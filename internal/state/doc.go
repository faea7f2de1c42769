// Package state holds the shared snapshot of platform data. The background
// poller writes it, the UI reads it; the store hands out defensive copies so
// neither side can mutate the other's view.
package state
