// Package mutate sequences local-first mutations with their remote
// confirmations. Each mutation is applied to the state store
// synchronously, then confirmed against the Roost API; a failed
// confirmation inverts the local change and surfaces an error. Rapid
// re-toggles of the same entity supersede in-flight confirmations so the
// final remote call reflects the final intent.
package mutate
