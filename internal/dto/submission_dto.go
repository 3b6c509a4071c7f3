package dto

import (
	"time"

	"github.com/codeclash/arena/internal/models"
)

// SubmissionCreateRequest is the payload for handing in code.
type SubmissionCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required,min=1"`
	Language string `json:"language" validate:"required"`
}

// SubmissionCreateResponse acknowledges intake. Scoring happens
// asynchronously; callers poll the submission or watch the room events.
type SubmissionCreateResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// SubmissionResponse represents a submission to API consumers. The code
// payload is not echoed back.
type SubmissionResponse struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	Username    string     `json:"username"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	Score       *int       `json:"score,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ScoredAt    *time.Time `json:"scored_at,omitempty"`
}

// NewSubmissionResponse builds a submission DTO from a model.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          submission.ID,
		RoomID:      submission.RoomID,
		Username:    submission.Username,
		Language:    submission.Language,
		Status:      submission.Status,
		Score:       submission.Score,
		Feedback:    submission.Feedback,
		SubmittedAt: submission.SubmittedAt,
		ScoredAt:    submission.ScoredAt,
	}
}
