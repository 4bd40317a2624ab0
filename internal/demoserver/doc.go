// Package demoserver implements an in-memory Roost API so perch can run
// standalone with -demo. It serves the same wire contract the real
// backend does, including the quirks the client has to normalize
// (avatar seeds, duplicate-follow conflicts).
package demoserver
