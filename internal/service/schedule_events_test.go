package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestScheduleEventPublishToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, "siuroma:schedule:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewScheduleEventService(client, nil, "siuroma:schedule", testLogger())
	publisher.Publish(ctx, ScheduleEvent{
		Type:       EventRosterChanged,
		Category:   "SPEC",
		Round:      "round_001",
		CourseName: "SPEC-A",
		LessonID:   3,
		StudentID:  "ST100",
	})

	select {
	case msg := <-sub.Channel():
		var event ScheduleEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, EventRosterChanged, event.Type)
		require.Equal(t, "SPEC-A", event.CourseName)
		require.Equal(t, 3, event.LessonID)
		require.NotEmpty(t, event.Source)
		require.False(t, event.SentAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for schedule event")
	}
}

func TestScheduleEventPublishWithoutBrokers(t *testing.T) {
	publisher := NewScheduleEventService(nil, nil, "siuroma:schedule", testLogger())

	// No brokers configured; publishing must stay a silent no-op.
	publisher.Publish(context.Background(), ScheduleEvent{Type: EventCourseCreated})
}

func TestScheduleEventSourceStablePerNode(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, "siuroma:schedule:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewScheduleEventService(client, nil, "siuroma:schedule", testLogger())
	publisher.Publish(ctx, ScheduleEvent{Type: EventCourseCreated})
	publisher.Publish(ctx, ScheduleEvent{Type: EventCourseDeleted})

	sources := make([]string, 0, 2)
	for len(sources) < 2 {
		select {
		case msg := <-sub.Channel():
			var event ScheduleEvent
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
			sources = append(sources, event.Source)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for schedule events")
		}
	}
	require.Equal(t, sources[0], sources[1])
}
