package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"fair/infras/otel/mocks"
)

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	tracer, recorder := mocks.NewRecordingOtel()

	func() (err error) {
		_, scope := tracer.NewScope(context.Background(), "fair/service", "reservation.Reserve")
		defer scope.End()
		defer func() { scope.TraceIfError(err) }()

		scope.SetAttributes(map[string]any{
			"booth.count":  2,
			"booth.ids":    []string{"b-1", "b-2"},
			"amount":       4500.5,
			"lock.timeout": 5 * time.Second,
		})
		scope.AddEvent("Booths reserved")

		err = errors.New("booth b-2 is not available")

		return err
	}()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "reservation.Reserve", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "booth b-2 is not available", span.Status().Description)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.Int("booth.count", 2),
		attribute.StringSlice("booth.ids", []string{"b-1", "b-2"}),
		attribute.Float64("amount", 4500.5),
		attribute.String("lock.timeout", "5s"),
	}, span.Attributes())
	require.Len(t, span.Events(), 2)
	assert.Equal(t, "Booths reserved", span.Events()[0].Name)
	assert.Equal(t, "exception", span.Events()[1].Name)
}

func TestScope_NilErrorLeavesStatusUnset(t *testing.T) {
	tracer, recorder := mocks.NewRecordingOtel()

	_, scope := tracer.NewScope(context.Background(), "fair/service", "booth.Get")
	scope.TraceError(nil)
	scope.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
	assert.Empty(t, recorder.Ended()[0].Events())
}
