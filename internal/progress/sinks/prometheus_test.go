package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/employee-discovery/internal/progress"
)

// TestPrometheusSinkRecordsMetrics ensures counters and histograms are incremented from events.
func TestPrometheusSinkRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	first := progress.UUIDToBytes(uuid.New())
	second := progress.UUIDToBytes(uuid.New())
	now := time.Now()
	batch := []progress.Event{
		{LaunchID: first, TS: now, Stage: progress.StageLaunchStart, Token: "1", Script: "a.py", PID: 10},
		{LaunchID: second, TS: now, Stage: progress.StageLaunchStart, Token: "2", Script: "b.py", PID: 11},
		{LaunchID: first, TS: now.Add(15 * time.Second), Stage: progress.StageLaunchExit, Token: "1", Script: "a.py", Dur: 15 * time.Second},
		{LaunchID: progress.UUIDToBytes(uuid.New()), TS: now, Stage: progress.StagePlaceholder, Token: "3", Script: "c.py"},
	}

	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Equal(t, 1.0, testutil.ToFloat64(sink.launchesStarted.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.launchesStarted.WithLabelValues("2")))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.launchesCompleted.WithLabelValues("1", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.launchesRunning))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.placeholders.WithLabelValues("3")))
	require.Equal(t, 1, testutil.CollectAndCount(sink.launchRuntime, "discovery_launch_runtime_seconds"))

	failed := []progress.Event{
		{LaunchID: second, TS: now, Stage: progress.StageLaunchExit, Token: "2", Script: "b.py", ExitCode: 3, Dur: time.Second},
		{LaunchID: second, TS: now, Stage: progress.StageLaunchExit, Token: "2", Script: "b.py", ExitCode: 3},
	}
	require.NoError(t, sink.Consume(context.Background(), failed))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.launchesCompleted.WithLabelValues("2", "failure")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.launchesRunning))
}

// TestPrometheusSinkDuplicateRegistration surfaces registry conflicts.
func TestPrometheusSinkDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
