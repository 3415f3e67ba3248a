package harness

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	resultValid   = "valid"
	resultInvalid = "invalid"
	resultFailed  = "failed"
)

// Metrics counts iteration outcomes.
type Metrics struct {
	iterations *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics creates the run metrics and registers them on reg, if non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blobcheck",
			Name:      "iterations_total",
			Help:      "Completed iterations by verification result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blobcheck",
			Name:      "iteration_duration_seconds",
			Help:      "Wall time of one generate, commit, prove and verify round.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.iterations, m.duration)
	}
	return m
}

func (m *Metrics) observe(o Outcome, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
	m.iterations.WithLabelValues(o.result()).Inc()
}

// Summary is a snapshot of the outcome counters.
type Summary struct {
	Valid, Invalid, Failed uint64
}

func (m *Metrics) Summary() (Summary, error) {
	var sum Summary
	for _, c := range []struct {
		result string
		dst    *uint64
	}{
		{resultValid, &sum.Valid},
		{resultInvalid, &sum.Invalid},
		{resultFailed, &sum.Failed},
	} {
		n, err := count(m.iterations, c.result)
		if err != nil {
			return Summary{}, err
		}
		*c.dst = n
	}
	return sum, nil
}

// counterSource is the part of *prometheus.CounterVec that count reads.
type counterSource interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

func count(vec counterSource, result string) (uint64, error) {
	var metric dto.Metric
	if err := vec.WithLabelValues(result).Write(&metric); err != nil {
		return 0, errors.Wrapf(err, "read %s iterations", result)
	}
	return uint64(metric.GetCounter().GetValue()), nil
}
