package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed network input. The graph-construction
// collaborator owns these invariants; they are checked once at build time.
var (
	ErrEmptyNodeID       = errors.New("empty node ID")
	ErrDuplicateNode     = errors.New("duplicate node")
	ErrSelfLoop          = errors.New("self-loop")
	ErrAsymmetricEdge    = errors.New("asymmetric adjacency")
	ErrDanglingReference = errors.New("dangling node reference")
)

// GraphError provides structured error information for graph construction.
type GraphError struct {
	Op       string // Operation that failed (e.g., "AddNode", "Build")
	NodeID   string // Node the error refers to
	Neighbor string // Neighbor involved, for adjacency errors
	Cause    error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Neighbor != "" {
		return fmt.Sprintf("%s node %q (neighbor %q): %v", e.Op, e.NodeID, e.Neighbor, e.Cause)
	}
	if e.NodeID != "" {
		return fmt.Sprintf("%s node %q: %v", e.Op, e.NodeID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func newError(op, nodeID, neighbor string, cause error) *GraphError {
	return &GraphError{Op: op, NodeID: nodeID, Neighbor: neighbor, Cause: cause}
}

// IsInputError reports whether err was caused by malformed network input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyNodeID) ||
		errors.Is(err, ErrDuplicateNode) ||
		errors.Is(err, ErrSelfLoop) ||
		errors.Is(err, ErrAsymmetricEdge) ||
		errors.Is(err, ErrDanglingReference)
}
