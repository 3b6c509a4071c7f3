package models

import "time"

// RoomStatus enumerates the lifecycle states of a competition room.
const (
	RoomStatusOpen       = "open"
	RoomStatusInProgress = "in_progress"
	RoomStatusClosed     = "closed"
)

// ProblemSpec describes the problem participants of a room compete on.
type ProblemSpec struct {
	Subject     string        `json:"subject"`
	Constraints string        `json:"constraints"`
	Language    string        `json:"language"`
	TimeLimit   time.Duration `json:"time_limit"`
}

// LeaderboardEntry tracks the best result a participant has achieved in a room.
// AchievedAt records when the current best score was first reached and is the
// primary tie-break key when ranking equal scores.
type LeaderboardEntry struct {
	Username     string    `json:"username"`
	BestScore    int       `json:"best_score"`
	BestFeedback string    `json:"best_feedback"`
	AchievedAt   time.Time `json:"achieved_at"`
}

// CompetitionRoom is a point-in-time snapshot of a room's state. Live rooms are
// owned by the store; snapshots are safe to read without coordination.
type CompetitionRoom struct {
	ID           string             `json:"id"`
	Spec         ProblemSpec        `json:"spec"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	Participants []string           `json:"participants"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

// IsClosed reports whether the room has reached its terminal state.
func (r CompetitionRoom) IsClosed() bool {
	return r.Status == RoomStatusClosed
}
