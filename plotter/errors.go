package plotter

import "errors"

var (
	// ErrSurfaceUnavailable means the drawing surface could not be obtained.
	// It is fatal for the Plotter instance.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	// ErrEvalFailure is returned by an Evaluator for a failed or non-finite sample.
	ErrEvalFailure = errors.New("evaluation failed")
	// ErrEquationInvalid means an equation failed its sentinel probe.
	ErrEquationInvalid = errors.New("equation invalid")
	// ErrLayoutNotReady means the host reported a zero-sized surface.
	// Initialization is retried on the next resize.
	ErrLayoutNotReady = errors.New("layout not ready")
	// ErrTornDown is returned when a Plotter is used after Teardown.
	ErrTornDown = errors.New("plotter torn down")
)

// ErrNoEquation is returned for an out-of-range equation index.
var ErrNoEquation = errors.New("no such equation")
