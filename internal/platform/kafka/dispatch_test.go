package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type dlqCapture struct {
	topic   string
	payload []byte
	cause   error
	calls   int
}

func (c *dlqCapture) fn(_ context.Context, topic string, payload []byte, cause error) {
	c.topic = topic
	c.payload = payload
	c.cause = cause
	c.calls++
}

func newTestDispatcher(handlers map[string]Handler, capture *dlqCapture) *dispatcher {
	return &dispatcher{
		handlers: handlers,
		dlq:      capture.fn,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func TestDispatch_Success(t *testing.T) {
	var got []byte
	capture := &dlqCapture{}
	d := newTestDispatcher(map[string]Handler{
		"badge.generate": func(_ context.Context, payload []byte) error {
			got = payload
			return nil
		},
	}, capture)

	d.dispatch(context.Background(), "badge.generate", []byte(`{"regId":"r1"}`))

	assert.Equal(t, []byte(`{"regId":"r1"}`), got)
	assert.Zero(t, capture.calls, "successful message must not reach the DLQ")
}

func TestDispatch_HandlerErrorGoesToDLQ(t *testing.T) {
	handlerErr := errors.New("render timeout")
	capture := &dlqCapture{}
	d := newTestDispatcher(map[string]Handler{
		"badge.generate": func(context.Context, []byte) error { return handlerErr },
	}, capture)

	payload := []byte(`{"regId":"r2"}`)
	d.dispatch(context.Background(), "badge.generate", payload)

	require.Equal(t, 1, capture.calls)
	assert.Equal(t, "badge.generate", capture.topic)
	assert.Equal(t, payload, capture.payload)
	assert.ErrorIs(t, capture.cause, handlerErr)
}

func TestDispatch_HandlerPanicGoesToDLQ(t *testing.T) {
	capture := &dlqCapture{}
	d := newTestDispatcher(map[string]Handler{
		"invitation.letter.generate": func(context.Context, []byte) error {
			panic("nil template")
		},
	}, capture)

	d.dispatch(context.Background(), "invitation.letter.generate", []byte(`{}`))

	require.Equal(t, 1, capture.calls)
	assert.Contains(t, capture.cause.Error(), "nil template")
}

func TestDispatch_UnknownTopicDropped(t *testing.T) {
	capture := &dlqCapture{}
	d := newTestDispatcher(map[string]Handler{}, capture)

	d.dispatch(context.Background(), "registration.created", []byte(`{}`))

	assert.Zero(t, capture.calls)
}

type markerFunc func(...*kgo.Record)

func (f markerFunc) MarkCommitRecords(rs ...*kgo.Record) { f(rs...) }

func TestTopicWorker_MarksOnlyAfterHandling(t *testing.T) {
	var order []string
	d := newTestDispatcher(map[string]Handler{
		"badge.generate": func(_ context.Context, payload []byte) error {
			order = append(order, "handled "+string(payload))
			return nil
		},
	}, &dlqCapture{})
	marker := markerFunc(func(rs ...*kgo.Record) {
		for _, rec := range rs {
			order = append(order, "marked "+string(rec.Value))
		}
	})

	ch := make(chan *kgo.Record, 2)
	ch <- &kgo.Record{Topic: "badge.generate", Value: []byte("m1")}
	ch <- &kgo.Record{Topic: "badge.generate", Value: []byte("m2")}
	close(ch)

	d.runTopicWorker(context.Background(), ch, marker)

	// A record must never be committable before its handler has run.
	assert.Equal(t, []string{"handled m1", "marked m1", "handled m2", "marked m2"}, order)
}

func TestTopicWorker_MarksDeadLetteredRecords(t *testing.T) {
	capture := &dlqCapture{}
	var marked int
	d := newTestDispatcher(map[string]Handler{
		"badge.generate": func(context.Context, []byte) error {
			return errors.New("render timeout")
		},
	}, capture)

	ch := make(chan *kgo.Record, 1)
	ch <- &kgo.Record{Topic: "badge.generate", Value: []byte(`{}`)}
	close(ch)

	d.runTopicWorker(context.Background(), ch, markerFunc(func(rs ...*kgo.Record) {
		marked += len(rs)
	}))

	// Forwarding to the DLQ is terminal handling, so the offset still moves.
	require.Equal(t, 1, capture.calls)
	assert.Equal(t, 1, marked)
}

func TestDLQMessage_Shape(t *testing.T) {
	msg := DLQMessage{
		OriginalTopic: "badge.generate",
		Message:       `{"regId":"r3"}`,
		Error:         "boom",
		Timestamp:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "badge.generate", decoded["originalTopic"])
	assert.Equal(t, `{"regId":"r3"}`, decoded["message"])
	assert.Equal(t, "boom", decoded["error"])
	assert.Equal(t, "2025-06-01T12:00:00Z", decoded["timestamp"])
}
