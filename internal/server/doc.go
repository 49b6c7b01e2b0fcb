// Package server wires and runs the application's HTTP transport.
//
// It owns the server lifecycle: startup, OS signal handling, and graceful
// shutdown including the shutdown hooks that wipe in-memory key material.
package server
