package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/models"
	"github.com/codeclash/arena/internal/observability"
	"github.com/codeclash/arena/internal/store"
)

// ErrInvalidProblemSpec indicates the room creation payload does not describe
// a usable problem.
var ErrInvalidProblemSpec = errors.New("invalid problem spec")

// ErrProblemNotFound indicates an unknown catalog problem id.
var ErrProblemNotFound = errors.New("problem not found")

// ErrInvalidUsername indicates a blank or whitespace-only username.
var ErrInvalidUsername = errors.New("invalid username")

// RoomService exposes room lifecycle and membership operations.
type RoomService interface {
	Create(ctx context.Context, payload dto.RoomCreateRequest) (dto.RoomCreateResponse, error)
	Join(ctx context.Context, roomID string, payload dto.RoomJoinRequest) (dto.RoomJoinResponse, error)
	Leave(ctx context.Context, roomID string, payload dto.RoomLeaveRequest) error
	Start(ctx context.Context, roomID string) (dto.RoomResponse, error)
	Close(ctx context.Context, roomID string) (dto.RoomResponse, error)
	Get(ctx context.Context, roomID string) (dto.RoomResponse, error)
	Leaderboard(ctx context.Context, roomID string) (dto.LeaderboardResponse, error)
}

type roomService struct {
	rooms     *store.RoomStore
	events    EventPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRoomService constructs the room service.
func NewRoomService(rooms *store.RoomStore, events EventPublisher, validate *validator.Validate, logger zerolog.Logger) RoomService {
	return &roomService{
		rooms:     rooms,
		events:    events,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "room_service").Logger(),
	}
}

func (s *roomService) Create(ctx context.Context, payload dto.RoomCreateRequest) (dto.RoomCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomCreateResponse{}, err
	}

	subject := strings.TrimSpace(s.sanitizer.Sanitize(payload.Subject))
	constraints := strings.TrimSpace(s.sanitizer.Sanitize(payload.Constraints))

	if payload.ProblemID != "" {
		problem, err := catalogProblem(payload.ProblemID)
		if err != nil {
			return dto.RoomCreateResponse{}, err
		}
		if subject == "" {
			subject = problem.Title + ": " + problem.Description
		}
	}

	if subject == "" {
		return dto.RoomCreateResponse{}, ErrInvalidProblemSpec
	}

	spec := models.ProblemSpec{
		Subject:     subject,
		Constraints: constraints,
		Language:    strings.ToLower(strings.TrimSpace(payload.Language)),
		TimeLimit:   time.Duration(payload.TimeLimitSeconds) * time.Second,
	}
	if spec.Language == "" || spec.TimeLimit <= 0 {
		return dto.RoomCreateResponse{}, ErrInvalidProblemSpec
	}

	room := s.rooms.Create(spec)
	observability.RoomsCreated().Inc()
	s.logger.Info().Str("room_id", room.ID()).Str("language", spec.Language).Dur("time_limit", spec.TimeLimit).Msg("room created")

	return dto.RoomCreateResponse{RoomID: room.ID()}, nil
}

// Join is deliberately permissive: a participant may join a room in any
// lifecycle status, including closed rooms. Gating joins on room status is a
// product decision that has not been made yet.
func (s *roomService) Join(ctx context.Context, roomID string, payload dto.RoomJoinRequest) (dto.RoomJoinResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomJoinResponse{}, err
	}

	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.RoomJoinResponse{}, err
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" {
		return dto.RoomJoinResponse{}, ErrInvalidUsername
	}

	if room.Join(username) {
		s.events.Publish(ctx, dto.Event{
			Kind:    dto.EventParticipantJoined,
			RoomID:  room.ID(),
			Payload: dto.ParticipantEventPayload{Username: username},
		})
		s.logger.Info().Str("room_id", room.ID()).Str("username", username).Msg("participant joined")
	}

	return dto.RoomJoinResponse{
		RoomID: room.ID(),
		Spec:   dto.NewProblemSpecResponse(room.Spec()),
	}, nil
}

func (s *roomService) Leave(ctx context.Context, roomID string, payload dto.RoomLeaveRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	room, err := s.rooms.Get(roomID)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(payload.Username)
	if room.Leave(username) {
		s.events.Publish(ctx, dto.Event{
			Kind:    dto.EventParticipantLeft,
			RoomID:  room.ID(),
			Payload: dto.ParticipantEventPayload{Username: username},
		})
		s.logger.Info().Str("room_id", room.ID()).Str("username", username).Msg("participant left")
	}

	return nil
}

func (s *roomService) Start(ctx context.Context, roomID string) (dto.RoomResponse, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	if room.Start(func() { s.expire(room) }) {
		s.events.Publish(ctx, dto.Event{
			Kind:    dto.EventCompetitionStarted,
			RoomID:  room.ID(),
			Payload: dto.RoomLifecyclePayload{Status: models.RoomStatusInProgress},
		})
		s.logger.Info().Str("room_id", room.ID()).Dur("time_limit", room.Spec().TimeLimit).Msg("competition started")
	}

	return dto.NewRoomResponse(room.Snapshot()), nil
}

func (s *roomService) Close(ctx context.Context, roomID string) (dto.RoomResponse, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	s.closeRoom(ctx, room)
	return dto.NewRoomResponse(room.Snapshot()), nil
}

func (s *roomService) Get(ctx context.Context, roomID string) (dto.RoomResponse, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.RoomResponse{}, err
	}
	return dto.NewRoomResponse(room.Snapshot()), nil
}

func (s *roomService) Leaderboard(ctx context.Context, roomID string) (dto.LeaderboardResponse, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	return dto.LeaderboardResponse{
		RoomID:  room.ID(),
		Entries: dto.NewLeaderboardEntryResponseSlice(room.Leaderboard()),
		AsOf:    time.Now().UTC(),
	}, nil
}

// expire runs on session timer expiry, detached from any request.
func (s *roomService) expire(room *store.Room) {
	s.logger.Info().Str("room_id", room.ID()).Msg("session timer expired")
	s.closeRoom(context.Background(), room)
}

// closeRoom transitions the room to closed and publishes the closing event at
// most once, regardless of whether the timer or an explicit stop got here
// first.
func (s *roomService) closeRoom(ctx context.Context, room *store.Room) {
	if !room.Close() {
		return
	}

	s.events.Publish(ctx, dto.Event{
		Kind:    dto.EventCompetitionClosed,
		RoomID:  room.ID(),
		Payload: dto.RoomLifecyclePayload{Status: models.RoomStatusClosed},
	})
	s.logger.Info().Str("room_id", room.ID()).Msg("competition closed")
}

func catalogProblem(id string) (models.Problem, error) {
	for _, problem := range models.Catalog() {
		if problem.ID == id {
			return problem, nil
		}
	}
	return models.Problem{}, ErrProblemNotFound
}
