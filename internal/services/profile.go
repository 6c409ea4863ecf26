package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/avatars"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/identity"
)

// ProfileService edits the caller's own account.
type ProfileService struct {
	users     UserStore
	avatars   AvatarStore
	remover   AvatarRemover
	validator *forms.Validator
	audit     Auditor
}

// NewProfileService creates a new ProfileService. When remover is nil a
// replaced avatar file is left on disk for the periodic sweep.
func NewProfileService(users UserStore, store AvatarStore, remover AvatarRemover, audit Auditor) *ProfileService {
	return &ProfileService{
		users:     users,
		avatars:   store,
		remover:   remover,
		validator: forms.New(users),
		audit:     audit,
	}
}

// Update validates f and overwrites the caller's username, email and,
// when upload is non-nil, avatar. It returns the refreshed identity.
func (s *ProfileService) Update(id identity.Identity, f *forms.ProfileUpdate, upload io.Reader) (identity.Identity, error) {
	caller, ok := id.User()
	if !ok {
		return id, ErrAuthRequired
	}
	if upload == nil {
		f.AvatarFilename = ""
	}
	if err := s.validator.ValidateProfile(f, caller.ID); err != nil {
		return id, err
	}

	current, err := s.users.GetUserByID(caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return id, ErrNotFound
		}
		return id, fmt.Errorf("get user %d: %w", caller.ID, err)
	}

	avatar := current.Avatar
	if upload != nil && f.AvatarFilename != "" {
		saved, err := s.avatars.Save(upload, f.AvatarFilename)
		if err != nil {
			if errors.Is(err, avatars.ErrTooLarge) {
				return id, &forms.ValidationError{Fields: map[string]forms.FieldError{
					"profile_img": {Field: "profile_img", Kind: forms.KindTooLong, Message: "File is too large."},
				}}
			}
			return id, fmt.Errorf("save avatar: %w", err)
		}
		avatar = saved
	}

	if err := s.users.UpdateProfile(caller.ID, f.Username, f.Email, avatar); err != nil {
		if avatar != current.Avatar {
			_ = s.avatars.Remove(avatar)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return id, s.validator.Conflict(f.Username, f.Email, caller.ID)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return id, ErrNotFound
		}
		return id, fmt.Errorf("update profile: %w", err)
	}

	if avatar != current.Avatar && current.HasCustomAvatar() {
		s.disposeAvatar(current.Avatar)
	}

	if s.audit != nil {
		s.audit.LogProfileUpdate(caller.ID, describeChanges(current, f.Username, f.Email, avatar))
	}

	return identity.Authenticated(identity.User{
		ID:       caller.ID,
		Username: f.Username,
		Email:    f.Email,
		Avatar:   avatar,
	}), nil
}

func (s *ProfileService) disposeAvatar(name string) {
	if s.remover == nil {
		return
	}
	if err := s.remover.RemoveAvatar(name); err != nil {
		log.Printf("Failed to schedule removal of avatar %s: %v", name, err)
	}
}

func describeChanges(before *entities.User, username, email, avatar string) string {
	var changed []string
	if before.Username != username {
		changed = append(changed, "username")
	}
	if before.Email != email {
		changed = append(changed, "email")
	}
	if before.Avatar != avatar {
		changed = append(changed, "avatar")
	}
	if len(changed) == 0 {
		return "Profile saved without changes"
	}
	return "Updated " + strings.Join(changed, ", ")
}
