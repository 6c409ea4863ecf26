package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AvatarFiles is the file store that uploaded avatars live in.
type AvatarFiles interface {
	Remove(name string) error
	Sweep(referenced []string, grace time.Duration) (int, error)
}

// AvatarReferences lists the avatar filenames currently assigned to users.
type AvatarReferences interface {
	ListAvatars() ([]string, error)
}

// RemoveAvatarTask deletes an avatar file that a profile update replaced.
type RemoveAvatarTask struct {
	Filename string `json:"filename"`
}

// Config returns the queue configuration for avatar removal tasks.
func (t RemoveAvatarTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "remove_avatar",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// RemoveAvatarProcessor creates a processor function for RemoveAvatarTask.
func RemoveAvatarProcessor(files AvatarFiles) backlite.QueueProcessor[RemoveAvatarTask] {
	return func(ctx context.Context, task RemoveAvatarTask) error {
		if files == nil {
			return fmt.Errorf("avatar store not configured")
		}
		if err := files.Remove(task.Filename); err != nil {
			return fmt.Errorf("remove avatar %q: %w", task.Filename, err)
		}
		log.Printf("[TASK] Removed replaced avatar %s", task.Filename)
		return nil
	}
}

// NewRemoveAvatarQueue creates a backlite queue for avatar removal tasks.
func NewRemoveAvatarQueue(files AvatarFiles) backlite.Queue {
	return backlite.NewQueue(RemoveAvatarProcessor(files))
}

// SweepAvatarsTask removes avatar files that no user references.
// Files younger than GraceMinutes are kept so an upload that has not been
// committed to the user row yet is never swept.
type SweepAvatarsTask struct {
	GraceMinutes int `json:"grace_minutes"`
}

// Config returns the queue configuration for avatar sweep tasks.
func (t SweepAvatarsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_avatars",
		MaxAttempts: 1,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DefaultSweepGraceMinutes is used when a sweep task carries no grace period.
const DefaultSweepGraceMinutes = 60

// SweepAvatarsProcessor creates a processor function for SweepAvatarsTask.
func SweepAvatarsProcessor(files AvatarFiles, refs AvatarReferences) backlite.QueueProcessor[SweepAvatarsTask] {
	return func(ctx context.Context, task SweepAvatarsTask) error {
		if files == nil || refs == nil {
			return fmt.Errorf("avatar sweep not configured")
		}

		referenced, err := refs.ListAvatars()
		if err != nil {
			return fmt.Errorf("list referenced avatars: %w", err)
		}

		grace := task.GraceMinutes
		if grace <= 0 {
			grace = DefaultSweepGraceMinutes
		}

		removed, err := files.Sweep(referenced, time.Duration(grace)*time.Minute)
		if err != nil {
			return fmt.Errorf("sweep avatars: %w", err)
		}

		log.Printf("[TASK] Swept %d orphaned avatars", removed)
		return nil
	}
}

// NewSweepAvatarsQueue creates a backlite queue for avatar sweep tasks.
func NewSweepAvatarsQueue(files AvatarFiles, refs AvatarReferences) backlite.Queue {
	return backlite.NewQueue(SweepAvatarsProcessor(files, refs))
}

// AvatarRemover schedules removal of replaced avatar files on the task queue.
type AvatarRemover struct {
	client *Client
}

// NewAvatarRemover creates an AvatarRemover backed by client.
func NewAvatarRemover(client *Client) *AvatarRemover {
	return &AvatarRemover{client: client}
}

// RemoveAvatar enqueues a RemoveAvatarTask for name.
func (r *AvatarRemover) RemoveAvatar(name string) error {
	return r.client.Enqueue(RemoveAvatarTask{Filename: name})
}
