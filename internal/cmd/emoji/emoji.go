// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols shared by command output.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Stop marks a shutdown or stop signal.
	Stop = "✗"

	// Warning marks a non-fatal problem, such as a catalog that failed to load
	// while the server keeps running.
	Warning = "!"

	// Star marks a favorited vehicle.
	Star = "★"

	// EmptyStar marks a vehicle that is not favorited.
	EmptyStar = "☆"
)
