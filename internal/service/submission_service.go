package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/codeclash/arena/internal/dto"
	"github.com/codeclash/arena/internal/models"
	"github.com/codeclash/arena/internal/observability"
	"github.com/codeclash/arena/internal/store"
	"github.com/codeclash/arena/pkg/judge"
)

// Fallback outcome substituted when the judge fails, times out or returns a
// score outside [0,100]. The submission is marked failed but the fallback is
// merged into the leaderboard exactly like a real score, so an evaluator
// outage never blocks participants.
const (
	FallbackScore    = 50
	FallbackFeedback = "We were unable to evaluate this submission automatically. A neutral score has been recorded."
)

const defaultJudgeTimeout = 10 * time.Second

// SubmissionConfig describes submission pipeline knobs.
type SubmissionConfig struct {
	JudgeTimeout time.Duration
}

// SubmissionService validates and records submissions and drives the
// asynchronous scoring pipeline.
type SubmissionService interface {
	Submit(ctx context.Context, roomID string, payload dto.SubmissionCreateRequest) (dto.SubmissionCreateResponse, error)
	Get(ctx context.Context, id string) (dto.SubmissionResponse, error)
}

type submissionService struct {
	rooms       *store.RoomStore
	submissions *store.SubmissionStore
	judge       judge.Judge
	events      EventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	config      SubmissionConfig
}

// NewSubmissionService constructs the submission pipeline.
func NewSubmissionService(rooms *store.RoomStore, submissions *store.SubmissionStore, judgeClient judge.Judge, events EventPublisher, validate *validator.Validate, logger zerolog.Logger, cfg SubmissionConfig) SubmissionService {
	if cfg.JudgeTimeout <= 0 {
		cfg.JudgeTimeout = defaultJudgeTimeout
	}

	return &submissionService{
		rooms:       rooms,
		submissions: submissions,
		judge:       judgeClient,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/codeclash/arena/internal/service/submission"),
		config:      cfg,
	}
}

// Submit records a pending submission and returns immediately; the judge call
// runs as a detached task and re-enters the room's critical section when it
// merges the result. Intake is not gated on room status: a submission
// arriving after closure is still scored, matching the permissive policy for
// late joins.
func (s *submissionService) Submit(ctx context.Context, roomID string, payload dto.SubmissionCreateRequest) (dto.SubmissionCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionCreateResponse{}, err
	}

	room, err := s.rooms.Get(roomID)
	if err != nil {
		return dto.SubmissionCreateResponse{}, err
	}

	submission := s.submissions.Create(room.ID(), payload.Username, payload.Code, payload.Language)

	s.events.Publish(ctx, dto.Event{
		Kind:   dto.EventSubmissionReceived,
		RoomID: room.ID(),
		Payload: dto.SubmissionReceivedPayload{
			SubmissionID: submission.ID,
			Username:     submission.Username,
		},
	})
	s.logger.Info().Str("room_id", room.ID()).Str("submission_id", submission.ID).Str("username", submission.Username).Msg("submission received")

	go s.score(room, submission)

	return dto.SubmissionCreateResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
	}, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.Get(id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

// score runs detached from the submitting request, so it starts from a fresh
// context rather than the request's.
func (s *submissionService) score(room *store.Room, submission models.Submission) {
	ctx, span := s.tracer.Start(context.Background(), "submission.score", trace.WithAttributes(
		attribute.String("room_id", room.ID()),
		attribute.String("submission_id", submission.ID),
	))
	defer span.End()

	judgeCtx, cancel := context.WithTimeout(ctx, s.config.JudgeTimeout)
	defer cancel()

	spec := room.Spec()
	verdict, err := s.judge.Evaluate(judgeCtx, judge.Input{
		Subject:           spec.Subject,
		Constraints:       spec.Constraints,
		RequiredLanguage:  spec.Language,
		SubmittedLanguage: submission.Language,
		Code:              submission.Code,
	})

	status := models.SubmissionStatusScored
	if err != nil || verdict.Score < 0 || verdict.Score > 100 {
		if err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Str("submission_id", submission.ID).Msg("judge unavailable, using fallback outcome")
		} else {
			s.logger.Warn().Int("score", verdict.Score).Str("submission_id", submission.ID).Msg("judge returned out-of-range score, using fallback outcome")
		}
		status = models.SubmissionStatusFailed
		verdict = judge.Verdict{Score: FallbackScore, Feedback: FallbackFeedback}
		observability.JudgeFallbacks().Inc()
	}

	if !s.submissions.Finalize(submission.ID, status, verdict.Score, verdict.Feedback) {
		s.logger.Error().Str("submission_id", submission.ID).Msg("submission already finalised, dropping verdict")
		return
	}
	observability.Submissions().WithLabelValues(status).Inc()

	updated := room.MergeScore(submission.Username, verdict.Score, verdict.Feedback, time.Now().UTC())

	s.events.Publish(ctx, dto.Event{
		Kind:   dto.EventSubmissionScored,
		RoomID: room.ID(),
		Payload: dto.SubmissionScoredPayload{
			SubmissionID: submission.ID,
			Username:     submission.Username,
			Score:        verdict.Score,
			Status:       status,
		},
	})

	s.logger.Info().
		Str("room_id", room.ID()).
		Str("submission_id", submission.ID).
		Str("username", submission.Username).
		Int("score", verdict.Score).
		Bool("leaderboard_updated", updated).
		Msg("submission scored")
}
