// Package kafka provides the durable message bus between the registration
// service (producer) and the badge / invitation-letter workers (consumers).
//
// Delivery model: one consumer group per process, a single shared client
// multiplexing all subscribed topics. Topics are provisioned with a single
// partition, so order is strict FIFO per topic but not across topics.
// Handlers are registered with Subscribe before Run starts consumption
// (two-phase startup); a handler error never kills the consume loop - the raw
// message is forwarded to `<topic>.dlq` instead. Offsets are committed through
// marks only after a record's handler (or its DLQ forward) has finished, so
// delivery is at least once: a crash mid-handle redelivers on restart.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"waangu/internal/platform/config"
	"waangu/internal/platform/metrics"
)

const (
	connectAttempts   = 5
	provisionAttempts = 5
	topicPartitions   = 1
	topicReplication  = 1
)

// Handler processes one raw message from a topic. Returning an error routes
// the message to the topic's dead-letter sibling.
type Handler func(ctx context.Context, payload []byte) error

// DLQMessage wraps an unprocessable message for offline inspection.
type DLQMessage struct {
	OriginalTopic string    `json:"originalTopic"`
	Message       string    `json:"message"`
	Error         string    `json:"error"`
	Timestamp     time.Time `json:"timestamp"`
}

// Bus is the franz-go backed message bus.
type Bus struct {
	cfg     config.KafkaConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	client *kgo.Client
	admin  *kadm.Client

	mu       sync.Mutex
	handlers map[string]Handler
	running  bool
}

type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) { b.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

// New dials the brokers with exponential backoff and verifies connectivity.
// The returned bus can produce immediately; consumption starts with Run.
func New(ctx context.Context, cfg config.KafkaConfig, opts ...Option) (*Bus, error) {
	b := &Bus{
		cfg:      cfg,
		logger:   slog.Default(),
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}

	client, err := connectWithRetry(ctx, b.logger, cfg)
	if err != nil {
		return nil, err
	}
	b.client = client
	b.admin = kadm.NewClient(client)

	b.logger.Info("kafka bus connected",
		"brokers", cfg.Brokers, "client_id", cfg.ClientID, "group_id", cfg.GroupID)
	return b, nil
}

func connectWithRetry(ctx context.Context, logger *slog.Logger, cfg config.KafkaConfig) (*kgo.Client, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Brokers...),
			kgo.ClientID(cfg.ClientID),
		)
		if err == nil {
			if err = client.Ping(ctx); err == nil {
				return client, nil
			}
			client.Close()
		}
		lastErr = err

		delay := time.Duration(1<<(attempt-1)) * time.Second
		logger.Warn("kafka connect failed, retrying",
			"attempt", attempt, "max_attempts", connectAttempts, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("kafka connect failed after %d attempts: %w", connectAttempts, lastErr)
}

// Produce serializes v to JSON and appends it to topic. Failures surface
// synchronously; the caller decides whether they abort the operation.
func (b *Bus) Produce(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message for topic %s: %w", topic, err)
	}
	return b.produceRaw(ctx, topic, payload)
}

func (b *Bus) produceRaw(ctx context.Context, topic string, payload []byte) error {
	res := b.client.ProduceSync(ctx, &kgo.Record{Topic: topic, Value: payload})
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("produce to topic %s: %w", topic, err)
	}
	if b.metrics != nil {
		b.metrics.MessagesProduced.WithLabelValues(topic).Inc()
	}
	b.logger.Debug("message produced", "topic", topic)
	return nil
}

// Subscribe provisions the topic (and its DLQ sibling) and registers its
// handler. Must be called before Run; at most one handler per topic.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("subscribe %s: consumer already running", topic)
	}
	if _, exists := b.handlers[topic]; exists {
		return fmt.Errorf("subscribe %s: handler already registered", topic)
	}
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	if err := b.ensureTopic(ctx, topic+".dlq"); err != nil {
		return err
	}
	b.handlers[topic] = handler
	b.logger.Info("handler registered", "topic", topic)
	return nil
}

// EnsureTopic provisions a topic the producer writes to but nobody in this
// process consumes (registration.created and friends).
func (b *Bus) EnsureTopic(ctx context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureTopic(ctx, topic)
}

// ensureTopic is create-if-absent plus a bounded metadata readiness check, so
// producers and the consumer group never race a half-created topic.
func (b *Bus) ensureTopic(ctx context.Context, topic string) error {
	_, err := b.admin.CreateTopic(ctx, topicPartitions, topicReplication, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	var lastErr error
	for attempt := 1; attempt <= provisionAttempts; attempt++ {
		md, err := b.admin.Metadata(ctx, topic)
		if err == nil {
			if td, ok := md.Topics[topic]; ok && td.Err == nil && len(td.Partitions) > 0 {
				return nil
			}
			err = fmt.Errorf("topic %s metadata not ready", topic)
		}
		lastErr = err

		delay := time.Duration(attempt) * time.Second
		b.logger.Warn("topic readiness check failed, retrying",
			"topic", topic, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("verify topic %s after %d attempts: %w", topic, provisionAttempts, lastErr)
}

// Run starts the shared consumer group over every subscribed topic and blocks
// until ctx is cancelled. Records are dispatched to a serial worker per topic:
// partition order is preserved within a topic while a slow render on one topic
// no longer head-of-line-blocks the others. Each worker marks its record for
// commit only after handling it, so the group never commits past a record that
// is still queued or in flight.
func (b *Bus) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("consumer already running")
	}
	topics := make([]string, 0, len(b.handlers))
	for topic := range b.handlers {
		topics = append(topics, topic)
	}
	b.running = len(topics) > 0
	d := &dispatcher{
		handlers: b.handlers,
		dlq:      b.sendToDLQ,
		logger:   b.logger,
		metrics:  b.metrics,
	}
	b.mu.Unlock()

	if len(topics) == 0 {
		b.logger.Warn("no consumer handlers registered, consumer will not be started")
		return nil
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(b.cfg.Brokers...),
		kgo.ClientID(b.cfg.ClientID),
		kgo.ConsumerGroup(b.cfg.GroupID),
		kgo.ConsumeTopics(topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
		kgo.AutoCommitMarks(),
	)
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}
	defer consumer.Close()

	queues := make(map[string]chan *kgo.Record, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		ch := make(chan *kgo.Record, 64)
		queues[topic] = ch
		g.Go(func() error {
			d.runTopicWorker(gctx, ch, consumer)
			return nil
		})
	}

	b.logger.Info("kafka consumer started", "topics", topics)

	for {
		fetches := consumer.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			b.logger.Error("fetch error", "topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			if ch, ok := queues[rec.Topic]; ok {
				select {
				case ch <- rec:
				case <-ctx.Done():
				}
			}
		})
	}

	for _, ch := range queues {
		close(ch)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Flush marks accumulated by the draining workers. Run's ctx is already
	// cancelled here, so the final commit gets its own.
	if err := consumer.CommitMarkedOffsets(context.Background()); err != nil {
		b.logger.Error("final offset commit failed", "error", err)
	}
	return ctx.Err()
}

// sendToDLQ forwards a failed message to the topic's dead-letter sibling.
// DLQ delivery failures are logged only; there is nowhere further to escalate.
func (b *Bus) sendToDLQ(ctx context.Context, topic string, payload []byte, cause error) {
	dlqTopic := topic + ".dlq"
	wrapped, err := json.Marshal(DLQMessage{
		OriginalTopic: topic,
		Message:       string(payload),
		Error:         cause.Error(),
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		b.logger.Error("marshal DLQ message failed", "topic", dlqTopic, "error", err)
		return
	}
	if err := b.produceRaw(ctx, dlqTopic, wrapped); err != nil {
		b.logger.Error("DLQ delivery failed", "topic", dlqTopic, "error", err)
		return
	}
	if b.metrics != nil {
		b.metrics.MessagesDeadLettered.WithLabelValues(topic).Inc()
	}
	b.logger.Warn("message forwarded to DLQ", "topic", dlqTopic, "error", cause)
}

// Close releases the producer/admin client. Run's consumer closes with its
// context.
func (b *Bus) Close() {
	b.client.Close()
}
