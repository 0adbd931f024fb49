package main

import (
	"errors"
	"os"

	ghostconv "github.com/ghostware/go-ghostconv"
	"github.com/ghostware/go-ghostconv/internal/config"
)

// Exit codes for the ghostconv CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, profile, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitEngine  = 4 // Engine missing or engine failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, ghostconv.ErrEngineNotFound) ||
		errors.Is(err, ghostconv.ErrEngineFailure) ||
		errors.Is(err, ghostconv.ErrRenderFailure) ||
		errors.Is(err, ErrMissingDependency) {
		return ExitEngine
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ghostconv.ErrStaging) {
		return ExitIO
	}

	// Usage/profile/validation errors (exit 2)
	if errors.Is(err, ErrNoCommand) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoOutput) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrUnknownEnumValue) ||
		errors.Is(err, config.ErrProfileNotFound) ||
		errors.Is(err, config.ErrProfileParse) ||
		errors.Is(err, config.ErrEmptyProfileName) ||
		errors.Is(err, ghostconv.ErrInvalidFormat) ||
		errors.Is(err, ghostconv.ErrInvalidResolution) ||
		errors.Is(err, ghostconv.ErrInvalidPageRange) ||
		errors.Is(err, ghostconv.ErrInvalidOrientation) ||
		errors.Is(err, ghostconv.ErrInvalidPolicy) ||
		errors.Is(err, ghostconv.ErrUnsupportedInput) {
		return ExitUsage
	}

	return ExitGeneral
}
