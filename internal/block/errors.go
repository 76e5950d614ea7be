package block

import "fmt"

// QueryError is a failure of the entity query or load collaborators.
// It is fatal for the render and is returned to the host unchanged.
type QueryError struct {
	Op  string // resolve, query or load
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s: %v", ID, e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
