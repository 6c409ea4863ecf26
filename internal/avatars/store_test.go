package avatars

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "profile_pics"))
	require.NoError(t, err)
	return s
}

func TestSave_RandomNamePreservesExtension(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Save(strings.NewReader("png-bytes"), "me.png")
	require.NoError(t, err)
	second, err := s.Save(strings.NewReader("png-bytes"), "me.png")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.NotEqual(t, "me.png", first)
	assert.NotEqual(t, first, second)

	data, err := os.ReadFile(filepath.Join(s.Dir(), first))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_TooLarge(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(bytes.NewReader(make([]byte, MaxBytes+1)), "big.jpg")
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed uploads must not leave files behind")
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save(strings.NewReader("x"), "a.jpg")
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(name), "removing twice is fine")
}

func TestRemove_NeverTouchesPlaceholder(t *testing.T) {
	s := newTestStore(t)
	placeholder := filepath.Join(s.Dir(), entities.DefaultAvatar)
	require.NoError(t, os.WriteFile(placeholder, []byte("x"), 0644))

	require.NoError(t, s.Remove(entities.DefaultAvatar))
	_, err := os.Stat(placeholder)
	assert.NoError(t, err)
}

func TestRemove_RejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	outside := filepath.Join(filepath.Dir(s.Dir()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	require.NoError(t, s.Remove("../secret.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestSweep(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.now = func() time.Time { return now.Add(2 * time.Hour) }

	kept, err := s.Save(strings.NewReader("x"), "kept.jpg")
	require.NoError(t, err)
	orphan, err := s.Save(strings.NewReader("x"), "orphan.png")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), entities.DefaultAvatar), []byte("x"), 0644))

	removed, err := s.Sweep([]string{kept, entities.DefaultAvatar}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(s.Dir(), kept))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), orphan))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(s.Dir(), entities.DefaultAvatar))
	assert.NoError(t, err)
}

func TestSweep_GraceProtectsFreshUploads(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(strings.NewReader("x"), "fresh.png")
	require.NoError(t, err)

	removed, err := s.Sweep(nil, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping())

	require.NoError(t, os.RemoveAll(s.Dir()))
	assert.Error(t, s.Ping())
}
