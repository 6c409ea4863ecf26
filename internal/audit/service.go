// Package audit records security-relevant user actions.
package audit

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	actionProfileUpdate = "profile_update"
	summaryLimit        = 255
	userAgentLimit      = 255
)

// Service writes audit events off the request path. Writes are
// fire-and-forget; Wait drains the ones still in flight.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) recordAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.Append(event); err != nil {
			log.Printf("audit: dropping %s event: %v", event.Action, err)
		}
	}()
}

// Wait blocks until every queued write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) LogAuth(userID uint, action string, ipAddr, userAgent string, success bool) {
	s.recordAsync(&entities.AuditEvent{
		UserID:     userID,
		Category:   entities.AuditCategoryAuth,
		Action:     action,
		RemoteAddr: ipAddr,
		UserAgent:  clip(userAgent, userAgentLimit),
		Succeeded:  success,
	})
}

// LogDelete records that userID removed one of their rows. The action is
// derived from the entity type, e.g. "note_delete".
func (s *Service) LogDelete(userID uint, entityType string, entityID uint, entityName string) {
	s.recordAsync(&entities.AuditEvent{
		UserID:     userID,
		Category:   entities.AuditCategoryDeletion,
		Action:     entityType + "_delete",
		Summary:    clip(fmt.Sprintf("Deleted %s: %s", entityType, entityName), summaryLimit),
		TargetType: entityType,
		TargetID:   &entityID,
		Succeeded:  true,
	})
}

func (s *Service) LogProfileUpdate(userID uint, description string) {
	s.recordAsync(&entities.AuditEvent{
		UserID:     userID,
		Category:   entities.AuditCategoryProfile,
		Action:     actionProfileUpdate,
		Summary:    clip(description, summaryLimit),
		TargetType: "user",
		TargetID:   &userID,
		Succeeded:  true,
	})
}

// Prune drops events older than retention. It backs the scheduled
// prune_audit_events task.
func (s *Service) Prune(retention time.Duration) (int64, error) {
	return s.repo.PurgeBefore(time.Now().Add(-retention))
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
