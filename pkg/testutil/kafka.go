package testutil

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	pkgkafka "github.com/jip-jung/jipjung-backend-sub000/pkg/kafka"
)

// EventTopic is the topic affordability events are published to.
const EventTopic = "affordability-events"

// EventBroker is a single-node Kafka holding the affordability event topic.
type EventBroker struct {
	Config pkgkafka.Config
	Topic  string
}

// NewEventBroker starts Kafka, creates EventTopic with the given number of
// partitions and terminates the container when t finishes.
func NewEventBroker(ctx context.Context, t *testing.T, partitions int) *EventBroker {
	t.Helper()

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("affordability-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	createTopic(ctx, t, brokers[0], EventTopic, partitions)

	return &EventBroker{
		Config: pkgkafka.Config{Brokers: brokers, ConsumerGroup: "affordability-test"},
		Topic:  EventTopic,
	}
}

// Consume reads from the topic until n messages arrived, failing t if ctx
// ends first.
func (b *EventBroker) Consume(ctx context.Context, t *testing.T, n int) []pkgkafka.Message {
	t.Helper()

	received := make(chan pkgkafka.Message, n)
	consumer, err := pkgkafka.NewConsumer(b.Config, b.Topic, func(_ context.Context, msg pkgkafka.Message) error {
		received <- msg
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = consumer.Start(consumeCtx) }()

	msgs := make([]pkgkafka.Message, 0, n)
	for len(msgs) < n {
		select {
		case msg := <-received:
			msgs = append(msgs, msg)
		case <-ctx.Done():
			t.Fatalf("received %d of %d messages before timeout", len(msgs), n)
		}
	}
	return msgs
}

func createTopic(ctx context.Context, t *testing.T, broker, topic string, partitions int) {
	t.Helper()

	conn, err := kafkago.DialContext(ctx, "tcp", broker)
	if err != nil {
		t.Fatalf("failed to dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("failed to find kafka controller: %v", err)
	}
	ctrl, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("failed to dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}); err != nil {
		t.Fatalf("failed to create topic %s: %v", topic, err)
	}
}
