package dto

import "time"

// Event kinds published per room. Delivery is best-effort; late subscribers
// catch up through the room and leaderboard queries.
const (
	EventParticipantJoined  = "participant-joined"
	EventParticipantLeft    = "participant-left"
	EventSubmissionReceived = "submission-received"
	EventSubmissionScored   = "submission-scored"
	EventCompetitionStarted = "competition-started"
	EventCompetitionClosed  = "competition-closed"
)

// Event is the envelope delivered to room subscribers.
type Event struct {
	Kind        string      `json:"kind"`
	RoomID      string      `json:"room_id"`
	Payload     interface{} `json:"payload,omitempty"`
	PublishedAt time.Time   `json:"published_at"`
}

// ParticipantEventPayload accompanies participant-joined/-left events.
type ParticipantEventPayload struct {
	Username string `json:"username"`
}

// SubmissionReceivedPayload accompanies submission-received events.
type SubmissionReceivedPayload struct {
	SubmissionID string `json:"submission_id"`
	Username     string `json:"username"`
}

// SubmissionScoredPayload accompanies submission-scored events, published
// after the leaderboard merge.
type SubmissionScoredPayload struct {
	SubmissionID string `json:"submission_id"`
	Username     string `json:"username"`
	Score        int    `json:"score"`
	Status       string `json:"status"`
}

// RoomLifecyclePayload accompanies competition-started/-closed events.
type RoomLifecyclePayload struct {
	Status string `json:"status"`
}
