package slicer

import "fmt"

// InvalidConfigError reports a contradictory or out-of-range
// configuration, surfaced before any geometric work begins.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("slicer: invalid config %s: %s", e.Field, e.Reason)
}

// NonManifoldError reports boundary or over-shared edges found during
// the pre-cut topology scan. Raised only when Force is off; the
// operation aborts before any cut is applied.
type NonManifoldError struct {
	BoundaryEdges    int
	NonManifoldEdges int
}

func (e *NonManifoldError) Error() string {
	return fmt.Sprintf("slicer: non-manifold geometry: %d boundary edges, %d edges shared by more than two faces",
		e.BoundaryEdges, e.NonManifoldEdges)
}

// GeometricOpError wraps a failure of the underlying cut/boolean
// primitive. Geometric failures are deterministic, so there is nothing
// to retry.
type GeometricOpError struct {
	Stage string
	Err   error
}

func (e *GeometricOpError) Error() string {
	return fmt.Sprintf("slicer: geometric operation failed at %s: %v", e.Stage, e.Err)
}

func (e *GeometricOpError) Unwrap() error {
	return e.Err
}
