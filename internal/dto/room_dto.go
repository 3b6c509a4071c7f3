package dto

import (
	"time"

	"github.com/codeclash/arena/internal/models"
)

// RoomCreateRequest is the payload for creating a competition room. When
// ProblemID references a catalog problem its description is used as the
// subject unless an explicit subject is supplied.
type RoomCreateRequest struct {
	Subject          string `json:"subject"`
	Constraints      string `json:"constraints"`
	Language         string `json:"language" validate:"required"`
	TimeLimitSeconds int    `json:"time_limit_seconds" validate:"required,gt=0"`
	ProblemID        string `json:"problem_id"`
}

// RoomCreateResponse returns the generated room id.
type RoomCreateResponse struct {
	RoomID string `json:"room_id"`
}

// RoomJoinRequest is the payload for joining a room.
type RoomJoinRequest struct {
	Username string `json:"username" validate:"required"`
}

// RoomLeaveRequest is the payload for leaving a room.
type RoomLeaveRequest struct {
	Username string `json:"username" validate:"required"`
}

// ProblemSpecResponse describes the problem of a room to API consumers.
type ProblemSpecResponse struct {
	Subject          string `json:"subject"`
	Constraints      string `json:"constraints,omitempty"`
	Language         string `json:"language"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// RoomJoinResponse hands the joining participant the problem they compete on.
type RoomJoinResponse struct {
	RoomID string              `json:"room_id"`
	Spec   ProblemSpecResponse `json:"problem"`
}

// LeaderboardEntryResponse is one ranked row of a room leaderboard.
type LeaderboardEntryResponse struct {
	Username     string    `json:"username"`
	BestScore    int       `json:"best_score"`
	BestFeedback string    `json:"best_feedback"`
	AchievedAt   time.Time `json:"achieved_at"`
}

// LeaderboardResponse is the ranked snapshot of a room.
type LeaderboardResponse struct {
	RoomID  string                     `json:"room_id"`
	Entries []LeaderboardEntryResponse `json:"entries"`
	AsOf    time.Time                  `json:"as_of"`
}

// RoomResponse is a full snapshot of a room's state.
type RoomResponse struct {
	ID           string                     `json:"id"`
	Status       string                     `json:"status"`
	CreatedAt    time.Time                  `json:"created_at"`
	StartedAt    *time.Time                 `json:"started_at,omitempty"`
	Spec         ProblemSpecResponse        `json:"problem"`
	Participants []string                   `json:"participants"`
	Leaderboard  []LeaderboardEntryResponse `json:"leaderboard"`
}

// NewProblemSpecResponse converts a problem spec into its DTO.
func NewProblemSpecResponse(spec models.ProblemSpec) ProblemSpecResponse {
	return ProblemSpecResponse{
		Subject:          spec.Subject,
		Constraints:      spec.Constraints,
		Language:         spec.Language,
		TimeLimitSeconds: int(spec.TimeLimit / time.Second),
	}
}

// NewLeaderboardEntryResponseSlice converts leaderboard entries into DTOs.
func NewLeaderboardEntryResponseSlice(entries []models.LeaderboardEntry) []LeaderboardEntryResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, LeaderboardEntryResponse{
			Username:     entry.Username,
			BestScore:    entry.BestScore,
			BestFeedback: entry.BestFeedback,
			AchievedAt:   entry.AchievedAt,
		})
	}
	return out
}

// NewRoomResponse builds a room DTO from a snapshot.
func NewRoomResponse(room models.CompetitionRoom) RoomResponse {
	return RoomResponse{
		ID:           room.ID,
		Status:       room.Status,
		CreatedAt:    room.CreatedAt,
		StartedAt:    room.StartedAt,
		Spec:         NewProblemSpecResponse(room.Spec),
		Participants: room.Participants,
		Leaderboard:  NewLeaderboardEntryResponseSlice(room.Leaderboard),
	}
}
