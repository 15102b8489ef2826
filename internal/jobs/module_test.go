package jobs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

func TestModuleLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	job := NewStatsReportJob(statsSourceStub{}, nil, "@every 1h", logger)

	recorder := &testhelpers.LifecycleRecorder{}
	registerLifecycle(recorder, job)
	require.Len(t, recorder.Hooks, 1)

	require.NoError(t, recorder.Start(context.Background()))
	assert.Len(t, job.cron.Entries(), 1)
	require.NoError(t, recorder.Stop(context.Background()))
	assert.Contains(t, buf.String(), "stats report stopped")
}

func TestModuleLifecycleInvalidSchedule(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	job := NewStatsReportJob(statsSourceStub{}, nil, "bogus", logger)

	recorder := &testhelpers.LifecycleRecorder{}
	registerLifecycle(recorder, job)
	assert.Error(t, recorder.Start(context.Background()))
}
