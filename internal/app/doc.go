// Package app wires configuration, the Roost client, the local store, the
// mutation controller, and the TUI together.
package app
