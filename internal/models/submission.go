package models

import "time"

// Submission statuses. A submission is created pending and transitions exactly
// once to scored or failed, after which it is immutable.
const (
	SubmissionStatusPending = "pending"
	SubmissionStatusScored  = "scored"
	SubmissionStatusFailed  = "failed"
)

// Submission is one code payload handed in by a participant for scoring.
type Submission struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	Username    string     `json:"username"`
	Code        string     `json:"code"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	Score       *int       `json:"score,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ScoredAt    *time.Time `json:"scored_at,omitempty"`
}

// IsTerminal reports whether the submission has finished scoring.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusScored || s.Status == SubmissionStatusFailed
}
