package petri

import (
	"errors"
	"fmt"
)

var (
	// Structural integrity errors, raised by Validate on loaded or
	// hand-edited nets. The translator never produces these.
	ErrDuplicateID   = errors.New("petri: duplicate node id")
	ErrDanglingArc   = errors.New("petri: arc references unknown node id")
	ErrNotBipartite  = errors.New("petri: arc connects nodes of the same kind")
	ErrNegativeToken = errors.New("petri: place has negative token count")
)

// IntegrityError describes a single structural violation found by Validate.
type IntegrityError struct {
	Err    error // one of the sentinel errors above
	NodeID int   // offending node id, if applicable
	Source int   // arc endpoints, if applicable
	Target int
}

func (e *IntegrityError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDanglingArc), errors.Is(e.Err, ErrNotBipartite):
		return fmt.Sprintf("%v (arc %d -> %d)", e.Err, e.Source, e.Target)
	default:
		return fmt.Sprintf("%v (node %d)", e.Err, e.NodeID)
	}
}

func (e *IntegrityError) Unwrap() error { return e.Err }
