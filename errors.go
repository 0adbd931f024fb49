package ghostconv

import "errors"

// Sentinel errors for conversion operations.
var (
	ErrNoInput          = errors.New("request has no input files")
	ErrNoOutput         = errors.New("request has no output path")
	ErrUnsupportedInput = errors.New("unsupported input file type")
	ErrEngineFailure    = errors.New("engine reported an error")
	ErrEngineNotFound   = errors.New("ghostscript binary not found")
	ErrNoEngineOutput   = errors.New("engine reported success but produced no output")
	ErrNoFreeSlot       = errors.New("no free numbered output path found")
	ErrRenderFailure    = errors.New("pre-render failed")

	// Request validation errors.
	ErrInvalidFormat      = errors.New("invalid target format")
	ErrInvalidResolution  = errors.New("invalid resolution")
	ErrInvalidPageRange   = errors.New("invalid page range")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidPolicy      = errors.New("invalid collision policy")

	// Working-area errors.
	ErrStaging = errors.New("working area staging failed")

	// Post-processing errors.
	ErrPostProcess = errors.New("PDF post-processing failed")
)
