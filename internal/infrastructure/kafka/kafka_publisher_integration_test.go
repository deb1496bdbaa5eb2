//go:build integration

package kafka_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/event"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/kafka"
	pkgkafka "github.com/jip-jung/jipjung-backend-sub000/pkg/kafka"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/testutil"
)

func TestKafkaEventPublisher_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := testutil.NewEventBroker(ctx, t, 3)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	producer, err := pkgkafka.NewProducer(broker.Config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	publisher := kafka.NewKafkaEventPublisher(producer, broker.Topic, logger)
	simulated := event.NewAffordabilitySimulated(
		testutil.TestUserID1, "", "2025H2", "WARNING",
		decimal.Zero, decimal.NewFromInt(40), 278_598_338, 0,
	)
	awarded := event.NewExperienceAwarded(testutil.TestUserID1, 40, 40_000_000)
	other := event.NewExperienceAwarded(testutil.TestUserID2, 10, 10_000_000)
	require.NoError(t, publisher.Publish(ctx, simulated, awarded))
	require.NoError(t, publisher.Publish(ctx, other))

	msgs := broker.Consume(ctx, t, 3)

	byUser := map[string][]pkgkafka.Message{}
	for _, msg := range msgs {
		byUser[string(msg.Key)] = append(byUser[string(msg.Key)], msg)
	}

	// One user's events share a partition, so they arrive in publish order.
	first := byUser[testutil.TestUserID1.String()]
	require.Len(t, first, 2)
	assert.Equal(t, simulated.EventID(), first[0].Headers["event_id"])
	assert.Equal(t, "affordability.simulated", first[0].Headers["event_type"])
	assert.Equal(t, awarded.EventID(), first[1].Headers["event_id"])
	assert.Equal(t, "UserProfile", first[1].Headers["aggregate_type"])

	second := byUser[testutil.TestUserID2.String()]
	require.Len(t, second, 1)
	assert.Equal(t, other.EventID(), second[0].Headers["event_id"])
}
