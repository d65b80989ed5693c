package domain

import "fmt"

// FetchError reports a failed fetch the caller cannot proceed without,
// naming the operation and the issue, board or filter involved.
type FetchError struct {
	Op      string // e.g. "get issue", "get board configuration"
	Subject string // e.g. "PROJ-1", "board 7"
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to %s for %s: %v", e.Op, e.Subject, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
