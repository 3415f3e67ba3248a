package harness

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/domicon-labs/blobcheck/blob"
	"github.com/domicon-labs/blobcheck/blobkzg"
)

// Outcome is the result of one verification. Err is set when the verifier
// itself failed, as opposed to rejecting the proof.
type Outcome struct {
	Index uint64
	Valid bool
	Err   error
}

func (o Outcome) result() string {
	switch {
	case o.Err != nil:
		return resultFailed
	case o.Valid:
		return resultValid
	default:
		return resultInvalid
	}
}

// Reporter receives each outcome as soon as its iteration completes.
type Reporter interface {
	Report(o Outcome)
}

// TextReporter prints one line per outcome.
type TextReporter struct {
	w io.Writer
}

func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Report(o Outcome) {
	if o.Err != nil {
		fmt.Fprintf(r.w, "Iteration %d failed: %v\n", o.Index, o.Err)
		return
	}
	fmt.Fprintf(r.w, "Iteration %d validation result: %t\n", o.Index, o.Valid)
}

// VerifyFunc checks a blob, commitment and proof triple.
type VerifyFunc func(b blob.Blob, c blobkzg.Commitment, p blobkzg.Proof, s *blobkzg.Settings) (bool, error)

// ComputeFunc builds the commitment and proof for a blob.
type ComputeFunc func(b blob.Blob, s *blobkzg.Settings) (blobkzg.Commitment, blobkzg.Proof, error)

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithReporter(rep Reporter) Option {
	return func(r *Runner) { r.reporter = rep }
}

// WithPipeline replaces ComputeComponents. Errors it returns abort the run.
func WithPipeline(c ComputeFunc) Option {
	return func(r *Runner) { r.compute = c }
}

// WithVerifier replaces blobkzg.VerifyBlobProof.
func WithVerifier(v VerifyFunc) Option {
	return func(r *Runner) { r.verify = v }
}

// Runner drives sequential generate, commit, prove and verify rounds. The
// settings are shared read-only; everything else is owned by one iteration.
type Runner struct {
	settings *blobkzg.Settings
	rand     io.Reader
	reporter Reporter
	logger   *zap.Logger
	metrics  *Metrics
	compute  ComputeFunc
	verify   VerifyFunc
}

// NewRunner creates a runner drawing blob bytes from rand.
func NewRunner(settings *blobkzg.Settings, rand io.Reader, opts ...Option) *Runner {
	r := &Runner{
		settings: settings,
		rand:     rand,
		reporter: NewTextReporter(io.Discard),
		logger:   zap.NewNop(),
		metrics:  NewMetrics(nil),
		compute:  ComputeComponents,
		verify:   blobkzg.VerifyBlobProof,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes n iterations and returns their outcomes in index order.
//
// A failure to build an iteration's blob, commitment or proof stops the run
// and is returned as a *StageError together with the outcomes so far. A
// verification failure is recorded in that iteration's Outcome and the run
// continues.
func (r *Runner) Run(ctx context.Context, n uint64) ([]Outcome, error) {
	var outcomes []Outcome
	preset := r.settings.Preset()
	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		start := time.Now()

		b, err := blob.Generate(r.rand, preset)
		if err != nil {
			return outcomes, &StageError{Stage: StageBlob, Iteration: int(i), Err: err}
		}
		commitment, proof, err := r.compute(b, r.settings)
		if err != nil {
			var se *StageError
			if errors.As(err, &se) {
				se.Iteration = int(i)
			}
			return outcomes, err
		}
		r.logger.Debug("computed blob components",
			zap.Uint64("iteration", i),
			zap.Stringer("commitment", commitment),
			zap.Stringer("proof", proof))

		valid, err := r.verify(b, commitment, proof, r.settings)
		o := Outcome{Index: i, Valid: valid && err == nil, Err: err}
		if err != nil {
			r.logger.Warn("verification failed", zap.Uint64("iteration", i), zap.Error(err))
		}

		r.metrics.observe(o, time.Since(start))
		r.reporter.Report(o)
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
