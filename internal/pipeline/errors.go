package pipeline

import (
	"fmt"
)

type Stage string

const (
	StageAuthenticate Stage = "authenticate"
	StageFetch        Stage = "fetch"
	StageFormat       Stage = "format"
	StageNotify       Stage = "notify"
)

// recoverLocally lists the stages whose failure is logged and swallowed instead of failing the run.
// A failed notification has nothing left downstream that could make use of the error.
var recoverLocally = map[Stage]bool{
	StageNotify: true,
}

// StageError wraps the failure of a single stage of a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Recovered reports whether the run treats this failure as handled.
func (e *StageError) Recovered() bool {
	return recoverLocally[e.Stage]
}
