package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/observability"
)

const eventBufferSize = 32

// EventPublisher is the narrow publishing contract the engine services depend
// on.
type EventPublisher interface {
	Publish(ctx context.Context, event dto.Event)
}

// EventStreamOptions wraps metadata extracted during the websocket upgrade.
type EventStreamOptions struct {
	RoomID        string
	Username      string
	CorrelationID string
	Context       context.Context
}

// EventService fans room-scoped state-change events out to subscribers.
// Delivery is best-effort: slow consumers are dropped rather than allowed to
// stall the room. Events for one room are observed by every subscriber in the
// order they were published.
type EventService interface {
	EventPublisher
	Subscribe(roomID string) (<-chan dto.Event, func())
	ServeConnection(conn *websocket.Conn, opts EventStreamOptions)
	Start(ctx context.Context)
}

type eventService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	hub          *eventHub
	nodeID       string
}

// eventHub tracks active subscriber channels per room. Broadcast holds the
// full lock so concurrent publishes for one room reach every subscriber in a
// single, shared order.
type eventHub struct {
	mu    sync.Mutex
	rooms map[string]map[chan dto.Event]struct{}
	log   zerolog.Logger
}

type relayedEvent struct {
	Source string    `json:"source"`
	Event  dto.Event `json:"event"`
	SentAt time.Time `json:"sent_at"`
}

// NewEventService creates the room event broadcaster. The redis and nats
// clients are optional cross-node relays; passing nil keeps fan-out local to
// this process.
func NewEventService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) EventService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &eventService{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_service").Logger(),
		hub: &eventHub{
			rooms: make(map[string]map[chan dto.Event]struct{}),
			log:   logger.With().Str("component", "event_hub").Logger(),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *eventService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *eventService) Publish(ctx context.Context, event dto.Event) {
	if event.PublishedAt.IsZero() {
		event.PublishedAt = time.Now().UTC()
	}

	observability.EventsPublished().WithLabelValues(event.Kind).Inc()
	s.hub.broadcast(event.RoomID, event)

	if err := s.relay(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("room_id", event.RoomID).Msg("failed to relay room event")
	}
}

func (s *eventService) Subscribe(roomID string) (<-chan dto.Event, func()) {
	channel := make(chan dto.Event, eventBufferSize)

	s.hub.subscribe(roomID, channel)
	observability.EventSubscribers().Inc()

	cleanup := func() {
		s.hub.unsubscribe(roomID, channel)
		observability.EventSubscribers().Dec()
	}

	return channel, cleanup
}

func (s *eventService) ServeConnection(conn *websocket.Conn, opts EventStreamOptions) {
	events, cleanup := s.Subscribe(opts.RoomID)
	defer cleanup()

	done := make(chan struct{})

	// Reader exists only to detect the peer going away; subscribers never
	// send events upstream.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Debug().Err(err).Str("room_id", opts.RoomID).Msg("event write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				s.logger.Debug().Err(err).Str("room_id", opts.RoomID).Msg("event ping failed")
				return
			}
		case <-done:
			return
		}
	}
}

func (s *eventService) relay(ctx context.Context, event dto.Event) error {
	if (s.redis == nil || s.redisChannel == "") && (s.nats == nil || s.natsSubject == "") {
		return nil
	}

	payload, err := json.Marshal(relayedEvent{
		Source: s.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *eventService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("event redis subscription closed")
			return
		}
		s.handleRelayed([]byte(msg.Payload))
	}
}

func (s *eventService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "arena-events", func(msg *nats.Msg) {
		s.handleRelayed(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain event nats subscription")
		}
	}()
}

func (s *eventService) handleRelayed(payload []byte) {
	var relayed relayedEvent
	if err := json.Unmarshal(payload, &relayed); err != nil {
		s.logger.Warn().Err(err).Msg("invalid relayed event payload")
		return
	}

	if relayed.Source == s.nodeID {
		return
	}

	observability.EventsPublished().WithLabelValues(relayed.Event.Kind).Inc()
	s.hub.broadcast(relayed.Event.RoomID, relayed.Event)
}

func (h *eventHub) subscribe(roomID string, ch chan dto.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[roomID]; !exists {
		h.rooms[roomID] = make(map[chan dto.Event]struct{})
	}
	h.rooms[roomID][ch] = struct{}{}
	h.log.Debug().Str("room_id", roomID).Msg("event subscriber attached")
}

func (h *eventHub) unsubscribe(roomID string, ch chan dto.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers, ok := h.rooms[roomID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.log.Debug().Str("room_id", roomID).Msg("event subscriber detached")
}

func (h *eventHub) broadcast(roomID string, event dto.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers := h.rooms[roomID]
	for ch := range subscribers {
		select {
		case ch <- event:
		default:
			h.log.Warn().Str("room_id", roomID).Str("kind", event.Kind).Msg("dropping event for slow subscriber")
		}
	}
}
