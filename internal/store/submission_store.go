package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeclash/arena/internal/models"
)

// ErrSubmissionNotFound indicates an unknown submission id.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionStore keeps every submission handed in during the process
// lifetime, keyed by id. A submission mutates exactly once, from pending to a
// terminal status, then freezes.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
}

// NewSubmissionStore creates an empty submission store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{submissions: make(map[string]*models.Submission)}
}

// Create records a new pending submission and returns a copy of it.
func (s *SubmissionStore) Create(roomID, username, code, language string) models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSubmissionID()
	for s.submissions[id] != nil {
		id = newSubmissionID()
	}

	submission := &models.Submission{
		ID:          id,
		RoomID:      roomID,
		Username:    username,
		Code:        code,
		Language:    language,
		Status:      models.SubmissionStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	s.submissions[id] = submission
	return *submission
}

// Get returns a copy of the submission for id, or ErrSubmissionNotFound.
func (s *SubmissionStore) Get(id string) (models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	submission := s.submissions[id]
	if submission == nil {
		return models.Submission{}, ErrSubmissionNotFound
	}
	return *submission, nil
}

// Finalize moves a pending submission to the given terminal status and stamps
// the outcome. The transition is applied at most once; later calls are no-ops
// and return false, keeping terminal submissions immutable.
func (s *SubmissionStore) Finalize(id, status string, score int, feedback string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	submission := s.submissions[id]
	if submission == nil || submission.Status != models.SubmissionStatusPending {
		return false
	}

	now := time.Now().UTC()
	submission.Status = status
	submission.Score = &score
	submission.Feedback = feedback
	submission.ScoredAt = &now
	return true
}

func newSubmissionID() string {
	return fmt.Sprintf("sub-%s", uuid.NewString()[:8])
}
