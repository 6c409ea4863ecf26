package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// AuditPruneSchedule runs the audit retention job daily at 04:00.
const AuditPruneSchedule = "0 4 * * *"

const (
	jobAvatarSweep = "avatar_sweep"
	jobAuditPrune  = "audit_prune"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule reports whether schedule is a valid five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Enqueuer puts a task on the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) error
}

type job struct {
	name     string
	schedule string
	task     backlite.Task
	entryID  cron.EntryID
}

// MaintenanceScheduler enqueues periodic housekeeping tasks: the orphaned
// avatar sweep and the audit prune.
type MaintenanceScheduler struct {
	queue Enqueuer
	jobs  []*job

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a scheduler for the jobs enabled in cfg.
func NewMaintenanceScheduler(queue Enqueuer, maintenance config.Maintenance, auditCfg config.Audit) (*MaintenanceScheduler, error) {
	s := &MaintenanceScheduler{queue: queue}

	if maintenance.AvatarSweepEnabled {
		if err := ValidateCronSchedule(maintenance.AvatarSweepSchedule); err != nil {
			return nil, fmt.Errorf("invalid cron schedule '%s': %w", maintenance.AvatarSweepSchedule, err)
		}
		s.jobs = append(s.jobs, &job{
			name:     jobAvatarSweep,
			schedule: maintenance.AvatarSweepSchedule,
			task:     tasks.SweepAvatarsTask{GraceMinutes: tasks.DefaultSweepGraceMinutes},
		})
	}

	s.jobs = append(s.jobs, &job{
		name:     jobAuditPrune,
		schedule: AuditPruneSchedule,
		task:     tasks.PruneAuditEventsTask{RetentionDays: auditCfg.RetentionDays},
	})

	return s, nil
}

// Start schedules every job and begins the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	c := cron.New(cron.WithParser(parser))
	for _, j := range s.jobs {
		j := j
		entryID, err := c.AddFunc(j.schedule, func() {
			s.run(j)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", j.name, err)
		}
		j.entryID = entryID
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron = c
	s.cron.Start()
	s.isRunning = true

	for _, j := range s.jobs {
		log.Printf("[SCHEDULER] %s scheduled with '%s'. Next run: %v", j.name, j.schedule, c.Entry(j.entryID).Next)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for running jobs to finish and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.cancelFunc()
	s.cancelFunc = nil

	log.Printf("[SCHEDULER] maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *MaintenanceScheduler) jobNames() []string {
	names := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		names = append(names, j.name)
	}
	return names
}

// nextRun is nil while stopped or for an unknown job.
func (s *MaintenanceScheduler) nextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, j := range s.jobs {
		if j.name == name {
			t := s.cron.Entry(j.entryID).Next
			return &t
		}
	}
	return nil
}

func (s *MaintenanceScheduler) runAll() {
	for _, j := range s.jobs {
		s.run(j)
	}
}

func (s *MaintenanceScheduler) run(j *job) {
	if err := s.queue.Enqueue(j.task); err != nil {
		log.Printf("[SCHEDULER] %s: failed to enqueue: %v", j.name, err)
		return
	}
	log.Printf("[SCHEDULER] %s: enqueued", j.name)
}
