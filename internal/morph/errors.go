package morph

import "fmt"

// NotFoundError is returned when an operation references an id that is not in
// the tree.
type NotFoundError struct {
	ID NodeID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %d not found", e.ID)
}

// InvalidOperationError is returned for operations the tree shape forbids,
// such as deleting the root.
type InvalidOperationError struct {
	Op     string
	Reason string
	Err    error // underlying cause, if any
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvalidOperationError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a field value is out of range. It is always
// raised before any mutation happens.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, e.Reason)
}
