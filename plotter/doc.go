// Package plotter is an interactive 2D function plotter.
//
// A Plotter binds a set of single-variable equations to a drawing surface
// (see package canvas). It owns a Viewport mapping math space onto the
// centered screen space of the surface, renders an adaptive grid and the
// sampled curves, and runs a small pointer state machine for panning,
// zooming and hover inspection.
//
// All methods must be called from one goroutine, usually the host's main
// loop. A redraw fully recomputes the frame from current state.
package plotter
