package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mcoot/cardwar/internal/dependencies/mocks"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/war"
	"github.com/mcoot/cardwar/internal/testutil"
)

func newTracedManager(t *testing.T) (*Manager, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger := testutil.NopLogger()
	m := NewManager(war.New(logger), mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)), mocks.NewMockRandom(), logger)
	m.tracer = tp.Tracer(tracerName)
	return m, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestMutationsAreTraced(t *testing.T) {
	m, recorder := newTracedManager(t)
	ctx := context.Background()

	id, err := m.CreateSession(ctx, alice)
	require.NoError(t, err)
	_, err = m.JoinSession(ctx, id, bob)
	require.NoError(t, err)
	_, err = m.PlayCard(ctx, id, alice.UserID)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "session.CreateSession", spans[0].Name())
	assert.Equal(t, "session.JoinSession", spans[1].Name())
	assert.Equal(t, "session.PlayCard", spans[2].Name())

	v, ok := spanAttr(spans[2], "session.id")
	require.True(t, ok)
	assert.Equal(t, string(id), v.AsString())
	v, ok = spanAttr(spans[2], "user.id")
	require.True(t, ok)
	assert.Equal(t, int64(alice.UserID), v.AsInt64())
}

func TestFailedMutationMarksSpan(t *testing.T) {
	m, recorder := newTracedManager(t)

	_, err := m.PlayCard(context.Background(), "missing", alice.UserID)
	require.ErrorIs(t, err, model.ErrSessionNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}
