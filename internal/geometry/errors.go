package geometry

import "fmt"

// ErrInvalidBoundaryBox is returned when a boundary box cannot be
// parsed or violates its invariants.
type ErrInvalidBoundaryBox struct {
	Text   string
	Reason string
}

func (e *ErrInvalidBoundaryBox) Error() string {
	return fmt.Sprintf("invalid boundary box %q: %s", e.Text, e.Reason)
}

// ErrInvalidCoordinate is returned when a latitude or longitude is out
// of the WGS-84 range.
type ErrInvalidCoordinate struct {
	Name  string
	Value float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid %s: %g", e.Name, e.Value)
}
