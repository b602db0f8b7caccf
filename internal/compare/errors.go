package compare

import "fmt"

// Stage names a pipeline step that can fail.
type Stage string

const (
	StageLoad       Stage = "load"
	StagePreprocess Stage = "preprocess"
	StageDiff       Stage = "diff"
	StageMatch      Stage = "match"
)

// StageError is a fatal failure of one pipeline stage. It unwraps to the
// underlying error so callers can test for sentinels with errors.Is.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
