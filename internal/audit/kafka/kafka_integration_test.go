//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"rollcall/internal/audit"
	"rollcall/internal/audit/kafka"
	"rollcall/pkg/testutil/containers"
)

func TestSinkPublishesRosterEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redpanda := containers.GetManager().GetRedpanda(t)

	const topic = "rollcall.roster-events.test"

	admin, err := kgo.NewClient(kgo.SeedBrokers(redpanda.Brokers...))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopic(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	sink, err := kafka.New(redpanda.Brokers, topic)
	require.NoError(t, err)
	defer sink.Close()

	event := audit.Event{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Action:    string(audit.EventSignupRecorded),
		Activity:  "Chess Club",
		Email:     "a@x.edu",
		RequestID: "req-123",
	}
	require.NoError(t, sink.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "Chess Club", string(records[0].Key), "records are keyed by activity for per-roster ordering")

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.Action, got.Action)
	require.Equal(t, event.Activity, got.Activity)
	require.Equal(t, event.Email, got.Email)
	require.Equal(t, event.RequestID, got.RequestID)
}
