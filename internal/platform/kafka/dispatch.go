package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"waangu/internal/platform/metrics"
)

// recordMarker marks records as processed for the next offset commit.
// *kgo.Client satisfies it.
type recordMarker interface {
	MarkCommitRecords(...*kgo.Record)
}

// dispatcher routes one record to its topic handler and shunts failures to
// the dead-letter path. Split from Bus so the error policy can be tested
// without a broker.
type dispatcher struct {
	handlers map[string]Handler
	dlq      func(ctx context.Context, topic string, payload []byte, cause error)
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// runTopicWorker drains one topic's queue serially, marking each record for
// commit only after dispatch returns. A record that errored is still marked:
// it reached the DLQ, which is its terminal handling. A record never marked
// (process died mid-handle) is redelivered on restart.
func (d *dispatcher) runTopicWorker(ctx context.Context, ch <-chan *kgo.Record, marker recordMarker) {
	for rec := range ch {
		d.dispatch(ctx, rec.Topic, rec.Value)
		marker.MarkCommitRecords(rec)
	}
}

func (d *dispatcher) dispatch(ctx context.Context, topic string, payload []byte) {
	handler, ok := d.handlers[topic]
	if !ok {
		d.logger.Warn("no handler for topic, dropping message", "topic", topic)
		return
	}

	if d.metrics != nil {
		d.metrics.MessagesConsumed.WithLabelValues(topic).Inc()
	}

	if err := d.invoke(ctx, handler, payload); err != nil {
		d.logger.Error("handler failed", "topic", topic, "error", err)
		d.dlq(ctx, topic, payload, err)
		return
	}
	d.logger.Debug("message handled", "topic", topic)
}

// invoke converts a handler panic into an error so one poison message cannot
// take down the consume loop.
func (d *dispatcher) invoke(ctx context.Context, handler Handler, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, payload)
}
