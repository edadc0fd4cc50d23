package portal3d

import "errors"

// Initialization errors. Device and loader failures are wrapped around one of these, so callers can tell
// them apart with errors.Is. None of them are recoverable; they're meant to end startup.
var (
	// ErrShaderCompile is returned when a shader program could not be loaded or compiled.
	ErrShaderCompile = errors.New("portal3d: shader compilation failed")

	// ErrResourceCreation is returned when a GPU resource (buffer, sampler, render target, mesh buffer) could not be created.
	ErrResourceCreation = errors.New("portal3d: resource creation failed")

	// ErrModelLoad is returned when a model file could not be read or parsed.
	ErrModelLoad = errors.New("portal3d: model load failed")
)
