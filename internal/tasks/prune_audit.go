package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 30

var errNoPruner = errors.New("audit pruner not configured")

// AuditPruner deletes audit events older than a retention window.
type AuditPruner interface {
	Prune(retention time.Duration) (int64, error)
}

// PruneAuditEventsTask trims the audit trail down to RetentionDays.
type PruneAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t PruneAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention converts RetentionDays to a duration, falling back to the
// default for non-positive values.
func (t PruneAuditEventsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func PruneAuditEventsProcessor(pruner AuditPruner) backlite.QueueProcessor[PruneAuditEventsTask] {
	return func(_ context.Context, task PruneAuditEventsTask) error {
		if pruner == nil {
			return errNoPruner
		}
		window := task.Retention()
		n, err := pruner.Prune(window)
		if err != nil {
			return fmt.Errorf("prune audit events: %w", err)
		}
		log.Printf("[TASK] Pruned %d audit events older than %s", n, window)
		return nil
	}
}

func NewPruneAuditEventsQueue(pruner AuditPruner) backlite.Queue {
	return backlite.NewQueue(PruneAuditEventsProcessor(pruner))
}
