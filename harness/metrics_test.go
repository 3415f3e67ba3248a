package harness

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCounter struct {
	prometheus.Counter
}

func (brokenCounter) Write(*dto.Metric) error { return errors.New("inconsistent label cardinality") }

type brokenVec struct{}

func (brokenVec) WithLabelValues(...string) prometheus.Counter { return brokenCounter{} }

func TestSummaryCounts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.observe(Outcome{Valid: true}, time.Millisecond)
	m.observe(Outcome{}, time.Millisecond)
	m.observe(Outcome{Err: errors.New("boom")}, time.Millisecond)
	m.observe(Outcome{Valid: true}, time.Millisecond)

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{Valid: 2, Invalid: 1, Failed: 1}, summary)
}

func TestCountReportsReadErrors(t *testing.T) {
	n, err := count(brokenVec{}, resultValid)
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "read valid iterations")
	assert.ErrorContains(t, err, "inconsistent label cardinality")
}
