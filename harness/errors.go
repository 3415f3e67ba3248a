package harness

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrBlobConstruction      = errors.New("error generating valid blob")
	ErrCommitmentComputation = errors.New("error computing kzg commitment")
	ErrProofComputation      = errors.New("error computing kzg proof")
)

// Stage names the pipeline step that failed while building the inputs of an
// iteration.
type Stage int

const (
	StageBlob Stage = iota
	StageCommitment
	StageProof
)

func (s Stage) String() string {
	switch s {
	case StageBlob:
		return "blob"
	case StageCommitment:
		return "commitment"
	case StageProof:
		return "proof"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) sentinel() error {
	switch s {
	case StageBlob:
		return ErrBlobConstruction
	case StageCommitment:
		return ErrCommitmentComputation
	case StageProof:
		return ErrProofComputation
	}
	return nil
}

// StageError is a construction failure. It always aborts a run.
type StageError struct {
	Stage Stage
	// Iteration is -1 when the error did not come from a Runner.
	Iteration int
	Err       error
}

func (e *StageError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("%v: %v", e.Stage.sentinel(), e.Err)
	}
	return fmt.Sprintf("iteration %d: %v: %v", e.Iteration, e.Stage.sentinel(), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is matches the sentinel of the failed stage.
func (e *StageError) Is(target error) bool {
	return target != nil && target == e.Stage.sentinel()
}
