package orchestration

import "fmt"

// Stage names the pipeline step an error originated from.
type Stage string

const (
	StageWake          Stage = "wake"
	StageTranscription Stage = "transcription"
	StageExecution     Stage = "execution"
	StageSynthesis     Stage = "synthesis"
)

// StageError wraps a stage failure. A stage error aborts the current session
// turn only; the caller loop is expected to start the next one.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
