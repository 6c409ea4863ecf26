package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/identity"
)

func TestProfileService_UpdateFieldsOnly(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	avatars := newMemoryAvatars()
	remover := &recordingRemover{}
	audit := &mockAuditor{}
	svc := NewProfileService(stores.users, avatars, remover, audit)

	updated, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alicia", Email: "alicia@x.io"}, nil)
	require.NoError(t, err)

	u, ok := updated.User()
	require.True(t, ok)
	assert.Equal(t, "alicia", u.Username)
	assert.Equal(t, entities.DefaultAvatar, u.Avatar)

	stored, err := stores.users.GetUserByID(alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, "alicia", stored.Username)
	assert.Equal(t, "alicia@x.io", stored.Email)
	assert.Empty(t, avatars.files)
	assert.Empty(t, remover.names)
	assert.Equal(t, []string{"Updated username, email"}, audit.profiles)
}

func TestProfileService_KeepOwnValues(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	svc := NewProfileService(stores.users, newMemoryAvatars(), nil, nil)

	_, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alice", Email: "a@x.io"}, nil)
	assert.NoError(t, err)
}

func TestProfileService_TakenByOtherUser(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	stores.createUser(t, "bob", "b@x.io")
	svc := NewProfileService(stores.users, newMemoryAvatars(), nil, nil)

	_, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alice", Email: "b@x.io"}, nil)
	ve, ok := forms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, forms.KindTaken, ve.Kind("email"))

	stored, err := stores.users.GetUserByID(alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", stored.Email)
}

// racingProfiles lets another account claim the new email between the
// validation lookups and the update.
type racingProfiles struct {
	UserStore
	claim func()
}

func (r racingProfiles) UpdateProfile(id uint, username, email, avatar string) error {
	r.claim()
	return r.UserStore.UpdateProfile(id, username, email, avatar)
}

func TestProfileService_LostRaceOnEmail(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	racing := racingProfiles{UserStore: stores.users, claim: func() {
		stores.createUser(t, "bob", "new@x.io")
	}}
	svc := NewProfileService(racing, newMemoryAvatars(), nil, nil)

	_, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alicia", Email: "new@x.io"}, nil)
	ve, ok := forms.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, forms.KindTaken, ve.Kind("email"))
	assert.NotContains(t, ve.Fields, "username")

	stored, err := stores.users.GetUserByID(alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}

func TestProfileService_NewAvatarReplacesOld(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	avatars := newMemoryAvatars()
	remover := &recordingRemover{}
	svc := NewProfileService(stores.users, avatars, remover, nil)

	first, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alice", Email: "a@x.io", AvatarFilename: "me.png"}, strings.NewReader("one"))
	require.NoError(t, err)
	firstUser, _ := first.User()
	assert.True(t, strings.HasSuffix(firstUser.Avatar, ".png"))
	assert.NotEqual(t, "me.png", firstUser.Avatar)
	assert.Empty(t, remover.names, "the placeholder is never removed")

	second, err := svc.Update(first, &forms.ProfileUpdate{Username: "alice", Email: "a@x.io", AvatarFilename: "me.jpg"}, strings.NewReader("two"))
	require.NoError(t, err)
	secondUser, _ := second.User()
	assert.NotEqual(t, firstUser.Avatar, secondUser.Avatar)
	assert.Equal(t, []string{firstUser.Avatar}, remover.names)

	stored, err := stores.users.GetUserByID(alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, secondUser.Avatar, stored.Avatar)
}

func TestProfileService_RejectsExtension(t *testing.T) {
	stores := setupStores(t)
	alice := stores.createUser(t, "alice", "a@x.io")
	avatars := newMemoryAvatars()
	svc := NewProfileService(stores.users, avatars, nil, nil)

	_, err := svc.Update(alice, &forms.ProfileUpdate{Username: "alice", Email: "a@x.io", AvatarFilename: "me.gif"}, strings.NewReader("gif"))
	ve, ok := forms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, forms.KindInvalidExtension, ve.Kind("profile_img"))
	assert.Empty(t, avatars.files)
}

func TestProfileService_RequiresUser(t *testing.T) {
	stores := setupStores(t)
	svc := NewProfileService(stores.users, newMemoryAvatars(), nil, nil)

	_, err := svc.Update(identity.Anonymous(), &forms.ProfileUpdate{Username: "x1", Email: "x@x.io"}, nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestProfileService_DeletedAccount(t *testing.T) {
	stores := setupStores(t)
	ghost := identity.Authenticated(identity.User{ID: 999, Username: "ghost"})
	svc := NewProfileService(stores.users, newMemoryAvatars(), nil, nil)

	_, err := svc.Update(ghost, &forms.ProfileUpdate{Username: "ghost", Email: "g@x.io"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
