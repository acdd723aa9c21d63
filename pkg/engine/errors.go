package engine

import "errors"

var (
	// ErrNotInitialized reports use of a session or engine before its
	// facts and programs were submitted and grounded.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrEngineFault wraps opaque failures surfaced by the engine. They
	// are not locally recoverable; the session is unusable afterwards.
	ErrEngineFault = errors.New("engine fault")

	// ErrSymbolNotFound reports a fact expected in the engine's symbol
	// table that is missing. This is a consistency bug between the store
	// and the session, never retried and never silently ignored.
	ErrSymbolNotFound = errors.New("symbol not found in engine table")
)
