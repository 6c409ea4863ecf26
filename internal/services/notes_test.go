package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/identity"
)

func TestNotesService_AddAndList(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	svc := NewNotesService(stores.notes, nil)

	note, err := svc.Add(alice, &forms.Note{Content: "test"})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID(), note.UserID)
	assert.NotZero(t, note.ID)

	list, err := svc.List(alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "test", list[0].Content)
}

func TestNotesService_AddValidates(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	svc := NewNotesService(stores.notes, nil)

	_, err := svc.Add(alice, &forms.Note{Content: ""})
	ve, ok := forms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, forms.KindMissingField, ve.Kind("content"))

	_, err = svc.Add(alice, &forms.Note{Content: strings.Repeat("x", forms.NoteMaxLength+1)})
	ve, ok = forms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, forms.KindTooLong, ve.Kind("content"))

	list, err := svc.List(alice)
	require.NoError(t, err)
	assert.Empty(t, list, "invalid notes must not be stored")
}

func TestNotesService_ListReturnsOnlyOwnRows(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	bob := stores.createUser(t, "bob", "b@x.io")
	svc := NewNotesService(stores.notes, nil)

	_, err := svc.Add(alice, &forms.Note{Content: "alice's"})
	require.NoError(t, err)
	_, err = svc.Add(bob, &forms.Note{Content: "bob's"})
	require.NoError(t, err)

	list, err := svc.List(bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob's", list[0].Content)
}

func TestNotesService_CannotDeleteOthersNote(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	bob := stores.createUser(t, "bob", "b@x.io")
	svc := NewNotesService(stores.notes, nil)

	note, err := svc.Add(bob, &forms.Note{Content: "private"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(alice, note.ID), ErrForbidden)

	list, err := svc.List(bob)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotesService_Remove(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	audit := &mockAuditor{}
	svc := NewNotesService(stores.notes, audit)

	note, err := svc.Add(alice, &forms.Note{Content: "temporary"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(alice, note.ID))
	assert.ErrorIs(t, svc.Remove(alice, note.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Remove(alice, 9999), ErrNotFound)

	require.Len(t, audit.deletes, 1)
	assert.Equal(t, "note", audit.deletes[0].EntityType)
}

func TestNotesService_RequiresUser(t *testing.T) {
	stores := setupStores(t)
	svc := NewNotesService(stores.notes, nil)

	_, err := svc.Add(identity.Anonymous(), &forms.Note{Content: "x"})
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.List(identity.Anonymous())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
	assert.Equal(t, "són...", preview("sónar", 3))
}
