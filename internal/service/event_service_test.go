package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/service"
)

func localEventService(t *testing.T) service.EventService {
	t.Helper()
	return service.NewEventService(nil, "", nil, zerolog.Nop())
}

func TestSubscriberReceivesEventsInPublishOrder(t *testing.T) {
	svc := localEventService(t)

	events, cleanup := svc.Subscribe("room-abc12345")
	defer cleanup()

	kinds := []string{
		dto.EventParticipantJoined,
		dto.EventCompetitionStarted,
		dto.EventSubmissionReceived,
		dto.EventSubmissionScored,
		dto.EventCompetitionClosed,
	}
	for _, kind := range kinds {
		svc.Publish(context.Background(), dto.Event{Kind: kind, RoomID: "room-abc12345"})
	}

	for _, expected := range kinds {
		select {
		case event := <-events:
			require.Equal(t, expected, event.Kind)
			require.Equal(t, "room-abc12345", event.RoomID)
			require.False(t, event.PublishedAt.IsZero())
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", expected)
		}
	}
}

func TestEventsAreRoomScoped(t *testing.T) {
	svc := localEventService(t)

	events, cleanup := svc.Subscribe("room-aaaaaaaa")
	defer cleanup()

	svc.Publish(context.Background(), dto.Event{Kind: dto.EventParticipantJoined, RoomID: "room-bbbbbbbb"})
	svc.Publish(context.Background(), dto.Event{Kind: dto.EventCompetitionStarted, RoomID: "room-aaaaaaaa"})

	select {
	case event := <-events:
		require.Equal(t, dto.EventCompetitionStarted, event.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for room event")
	}

	select {
	case event := <-events:
		t.Fatalf("unexpected event %s for other room", event.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	svc := localEventService(t)

	svc.Publish(context.Background(), dto.Event{Kind: dto.EventCompetitionStarted, RoomID: "room-abc12345"})

	events, cleanup := svc.Subscribe("room-abc12345")
	defer cleanup()

	select {
	case event := <-events:
		t.Fatalf("late subscriber received historical event %s", event.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	svc := localEventService(t)

	events, cleanup := svc.Subscribe("room-abc12345")
	cleanup()

	_, open := <-events
	require.False(t, open)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	svc := localEventService(t)

	_, cleanup := svc.Subscribe("room-abc12345")
	defer cleanup()

	// Flood well past the buffer; publish must stay non-blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			svc.Publish(context.Background(), dto.Event{Kind: dto.EventSubmissionReceived, RoomID: "room-abc12345"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}

func TestRedisRelayFansOutAcrossNodes(t *testing.T) {
	mr := miniredis.RunT(t)

	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientA.Close()
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nodeA := service.NewEventService(clientA, "arena-test", nil, zerolog.Nop())
	nodeB := service.NewEventService(clientB, "arena-test", nil, zerolog.Nop())
	nodeA.Start(ctx)
	nodeB.Start(ctx)

	events, cleanup := nodeB.Subscribe("room-abc12345")
	defer cleanup()

	// The relay consumer subscribes asynchronously; keep publishing until the
	// remote side observes an event.
	require.Eventually(t, func() bool {
		nodeA.Publish(context.Background(), dto.Event{Kind: dto.EventCompetitionStarted, RoomID: "room-abc12345"})
		select {
		case event := <-events:
			return event.Kind == dto.EventCompetitionStarted
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}
