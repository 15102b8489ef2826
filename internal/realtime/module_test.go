package realtime

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/ordertrack/internal/config"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

func TestModuleLifecycleClosesHub(t *testing.T) {
	hub := newHub(&config.Config{SubscriberBuffer: 2}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	sub := hub.Subscribe(admin)

	recorder := &testhelpers.LifecycleRecorder{}
	registerLifecycle(recorder, hub)
	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Stop(context.Background()))

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers())
}
