package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	reg := prometheus.NewPedanticRegistry()
	m.MustRegister(reg)

	m.ObserveFetch("users", "", 3, 10*time.Millisecond, nil)
	m.ObserveFetch("users", "", 2, time.Millisecond, nil)
	m.ObserveFetch("enums", "status", 1, time.Millisecond, errors.New("down"))
	m.ObserveWrite(WriteWritten)
	m.ObserveWrite(WriteWritten)
	m.ObserveWrite(WriteFailed)
	m.ObserveExecution("sequential", time.Second)

	assert.InDelta(t, 2, testutil.ToFloat64(m.fetches.WithLabelValues("users", "", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetches.WithLabelValues("enums", "status", "error")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(m.fetchedKeys.WithLabelValues("users")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.writes.WithLabelValues(WriteWritten)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.writes.WithLabelValues(WriteFailed)), 0)

	count, err := testutil.GatherAndCount(reg, "field_assembler_engine_execution_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveFetch("users", "", 1, time.Millisecond, nil)
		m.ObserveWrite(WriteSkipped)
		m.ObserveExecution("unordered", time.Millisecond)
	})
}

func TestMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, New().Register(reg))

	err := New().Register(reg)
	require.Error(t, err)

	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
