package store

import (
	"sort"
	"sync"
	"time"

	"github.com/codeclash/arena/internal/models"
)

// Room owns the live mutable state of one competition. Every mutation runs
// under the room mutex, which is the unit of mutual exclusion for the engine:
// operations on different rooms proceed in parallel, operations on the same
// room are serialised.
type Room struct {
	mu sync.Mutex

	id        string
	spec      models.ProblemSpec
	status    string
	createdAt time.Time
	startedAt *time.Time

	participants []string
	members      map[string]struct{}
	entries      map[string]*models.LeaderboardEntry

	timer    *time.Timer
	timerGen uint64
}

func newRoom(id string, spec models.ProblemSpec, now time.Time) *Room {
	return &Room{
		id:        id,
		spec:      spec,
		status:    models.RoomStatusOpen,
		createdAt: now,
		members:   make(map[string]struct{}),
		entries:   make(map[string]*models.LeaderboardEntry),
	}
}

// ID returns the immutable room identifier.
func (r *Room) ID() string {
	return r.id
}

// Spec returns the room's problem specification. The spec is immutable after
// creation so no locking is required.
func (r *Room) Spec() models.ProblemSpec {
	return r.spec
}

// Status returns the current lifecycle status.
func (r *Room) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Join adds username to the participant set. Joining is idempotent: the bool
// result reports whether the membership actually changed. Joining is allowed
// in every lifecycle status.
func (r *Room) Join(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[username]; exists {
		return false
	}
	r.members[username] = struct{}{}
	r.participants = append(r.participants, username)
	return true
}

// Leave removes username from the participant set. Any leaderboard entry the
// user has earned is retained. Returns whether the membership changed.
func (r *Room) Leave(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[username]; !exists {
		return false
	}
	delete(r.members, username)
	for i, name := range r.participants {
		if name == username {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			break
		}
	}
	return true
}

// Start transitions an open room to in progress and arms the session timer
// with onExpire as the expiry callback. Calling Start on a room that is
// already in progress or closed is a no-op; the bool result reports whether
// the transition happened.
func (r *Room) Start(onExpire func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusOpen {
		return false
	}
	now := time.Now().UTC()
	r.status = models.RoomStatusInProgress
	r.startedAt = &now
	r.armLocked(r.spec.TimeLimit, onExpire)
	return true
}

// Close forces the terminal state and disarms the timer. Idempotent; the bool
// result reports whether the transition happened, letting callers publish the
// closing event exactly once regardless of whether the timer or an explicit
// stop won the race.
func (r *Room) Close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == models.RoomStatusClosed {
		return false
	}
	r.status = models.RoomStatusClosed
	r.disarmLocked()
	return true
}

// ResetTimer rearms the countdown under a new limit. A timer that already
// fired stays consumed: the generation counter guarantees a stale expiry can
// never close a restarted room.
func (r *Room) ResetTimer(limit time.Duration, onExpire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusInProgress {
		return
	}
	r.armLocked(limit, onExpire)
}

func (r *Room) armLocked(limit time.Duration, onExpire func()) {
	r.disarmLocked()
	r.timerGen++
	gen := r.timerGen
	r.timer = time.AfterFunc(limit, func() {
		if !r.claimExpiry(gen) {
			return
		}
		onExpire()
	})
}

func (r *Room) disarmLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// claimExpiry reports whether a firing timer of the given generation is still
// the live one. A reset or explicit close invalidates older generations.
func (r *Room) claimExpiry(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.timerGen && r.status != models.RoomStatusClosed
}

// MergeScore folds a scored submission into the leaderboard. A new username is
// inserted; an existing entry is replaced only when score is strictly greater,
// so the best score is monotonically non-decreasing and ties keep the earlier
// feedback. The bool result reports whether the leaderboard changed.
func (r *Room) MergeScore(username string, score int, feedback string, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[username]
	if !exists {
		r.entries[username] = &models.LeaderboardEntry{
			Username:     username,
			BestScore:    score,
			BestFeedback: feedback,
			AchievedAt:   at,
		}
		return true
	}
	if score <= entry.BestScore {
		return false
	}
	entry.BestScore = score
	entry.BestFeedback = feedback
	entry.AchievedAt = at
	return true
}

// Leaderboard returns a sorted copy of the current standings: best score
// descending, then earliest achievement of that score, then username. The
// copy is safe to read concurrently with merges.
func (r *Room) Leaderboard() []models.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaderboardLocked()
}

func (r *Room) leaderboardLocked() []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestScore != out[j].BestScore {
			return out[i].BestScore > out[j].BestScore
		}
		if !out[i].AchievedAt.Equal(out[j].AchievedAt) {
			return out[i].AchievedAt.Before(out[j].AchievedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out
}

// Snapshot returns a consistent point-in-time copy of the room.
func (r *Room) Snapshot() models.CompetitionRoom {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := make([]string, len(r.participants))
	copy(participants, r.participants)

	var startedAt *time.Time
	if r.startedAt != nil {
		at := *r.startedAt
		startedAt = &at
	}

	return models.CompetitionRoom{
		ID:           r.id,
		Spec:         r.spec,
		Status:       r.status,
		CreatedAt:    r.createdAt,
		StartedAt:    startedAt,
		Participants: participants,
		Leaderboard:  r.leaderboardLocked(),
	}
}
