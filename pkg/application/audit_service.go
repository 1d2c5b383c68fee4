package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
)

// AuditService appends hash-chained events to an audit repository.
type AuditService struct {
	mu   sync.Mutex
	repo domain.AuditRepository
	now  func() time.Time
}

// Compile-time check that AuditService implements AuditLogger
var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Log records an action. The event continues the hash chain of the log.
func (s *AuditService) Log(action string, actor string, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.repo.Events()
	if err != nil {
		return fmt.Errorf("load audit trail: %w", err)
	}
	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Timestamp: s.now().UTC(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
		PrevHash:  prevHash,
	}
	event.Hash = event.CalculateHash()

	return s.repo.Append(event)
}

// Events returns the whole trail in order.
func (s *AuditService) Events() ([]domain.Event, error) {
	return s.repo.Events()
}

// StoryHistory returns the events that refer to one story.
func (s *AuditService) StoryHistory(storyID string) ([]domain.Event, error) {
	events, err := s.repo.Events()
	if err != nil {
		return nil, err
	}
	var out []domain.Event
	for _, e := range events {
		if e.StoryID() == storyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// VerifyIntegrity walks the chain and reports broken links and altered events.
func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.repo.Events()
	if err != nil {
		return nil, err
	}

	var violations []string
	lastHash := ""
	for i, e := range events {
		if e.PrevHash != lastHash {
			violations = append(violations, fmt.Sprintf("event %d (%s): previous hash mismatch", i, e.ID))
		}
		if e.Hash != e.CalculateHash() {
			violations = append(violations, fmt.Sprintf("event %d (%s): content hash mismatch", i, e.ID))
		}
		lastHash = e.Hash
	}
	return violations, nil
}
