package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvatarFiles struct {
	mu         sync.Mutex
	removed    []string
	referenced []string
	grace      time.Duration
	swept      int
	err        error
	done       chan struct{}
}

func (f *fakeAvatarFiles) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, name)
	if f.done != nil {
		close(f.done)
	}
	return nil
}

func (f *fakeAvatarFiles) Sweep(referenced []string, grace time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.referenced = referenced
	f.grace = grace
	return f.swept, nil
}

type fakeReferences struct {
	names []string
	err   error
}

func (f *fakeReferences) ListAvatars() ([]string, error) {
	return f.names, f.err
}

func TestRemoveAvatarTaskConfig(t *testing.T) {
	cfg := RemoveAvatarTask{Filename: "a.png"}.Config()

	assert.Equal(t, "remove_avatar", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
	assert.True(t, cfg.Retention.OnlyFailed)
}

func TestRemoveAvatarProcessor(t *testing.T) {
	t.Run("removes the file", func(t *testing.T) {
		files := &fakeAvatarFiles{}

		err := RemoveAvatarProcessor(files)(context.Background(), RemoveAvatarTask{Filename: "old.jpg"})

		require.NoError(t, err)
		assert.Equal(t, []string{"old.jpg"}, files.removed)
	})

	t.Run("wraps store errors", func(t *testing.T) {
		files := &fakeAvatarFiles{err: errors.New("disk gone")}

		err := RemoveAvatarProcessor(files)(context.Background(), RemoveAvatarTask{Filename: "old.jpg"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "old.jpg")
		assert.ErrorIs(t, err, files.err)
	})

	t.Run("fails without a store", func(t *testing.T) {
		err := RemoveAvatarProcessor(nil)(context.Background(), RemoveAvatarTask{Filename: "old.jpg"})
		assert.Error(t, err)
	})
}

func TestSweepAvatarsProcessor(t *testing.T) {
	t.Run("passes referenced names and grace", func(t *testing.T) {
		files := &fakeAvatarFiles{swept: 2}
		refs := &fakeReferences{names: []string{"a.png", "b.jpg"}}

		err := SweepAvatarsProcessor(files, refs)(context.Background(), SweepAvatarsTask{GraceMinutes: 5})

		require.NoError(t, err)
		assert.Equal(t, []string{"a.png", "b.jpg"}, files.referenced)
		assert.Equal(t, 5*time.Minute, files.grace)
	})

	t.Run("defaults the grace period", func(t *testing.T) {
		files := &fakeAvatarFiles{}

		err := SweepAvatarsProcessor(files, &fakeReferences{})(context.Background(), SweepAvatarsTask{})

		require.NoError(t, err)
		assert.Equal(t, DefaultSweepGraceMinutes*time.Minute, files.grace)
	})

	t.Run("does not sweep when listing fails", func(t *testing.T) {
		files := &fakeAvatarFiles{}
		refs := &fakeReferences{err: errors.New("db locked")}

		err := SweepAvatarsProcessor(files, refs)(context.Background(), SweepAvatarsTask{})

		require.Error(t, err)
		assert.Nil(t, files.referenced)
		assert.Zero(t, files.grace)
	})
}

func TestAvatarRemoverEnqueues(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	files := &fakeAvatarFiles{done: make(chan struct{})}
	client.Register(NewRemoveAvatarQueue(files))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.NoError(t, NewAvatarRemover(client).RemoveAvatar("replaced.png"))

	select {
	case <-files.done:
		files.mu.Lock()
		assert.Equal(t, []string{"replaced.png"}, files.removed)
		files.mu.Unlock()
	case <-time.After(5 * time.Second):
		t.Fatal("avatar removal was not processed within timeout")
	}
}
