// Package testutil provides shared fixtures for slimgen tests: a sqlmock
// backed database handle and on-disk PHP project trees.
package testutil

// Test error messages.
const (
	// TestError is a generic error message for failure scenarios.
	TestError = "test error"

	// TestConnectionRefused is the network error used by connection tests.
	TestConnectionRefused = "connection refused"
)

// Test host configuration.
const (
	TestHost = "localhost"

	TestDatabase = "shop"
)
