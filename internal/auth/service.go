package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/identity"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore is the slice of the accounts repository the auth flows need.
type UserStore interface {
	forms.AccountLookup
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	RecordLogin(id uint, at time.Time) error
}

// Service handles registration, credential checks and session binding.
type Service struct {
	users     UserStore
	sessions  *SessionManager
	validator *forms.Validator
	config    config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserStore, sessions *SessionManager, cfg config.Auth) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		validator: forms.New(users),
		config:    cfg,
	}
}

// Register validates the sign-up form and creates the account.
// Invalid input returns a *forms.ValidationError and writes nothing.
func (s *Service) Register(f *forms.Registration) (*entities.User, error) {
	if err := s.validator.ValidateRegistration(f); err != nil {
		return nil, err
	}

	hash, err := HashPassword(f.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(user); err != nil {
		// Lost a race with a concurrent sign-up for the same name or email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.validator.Conflict(f.Username, f.Email, 0)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate checks credentials against the named account's own hash.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// Login validates the form, authenticates and binds the request's session to the user.
func (s *Service) Login(r *http.Request, f *forms.Login) (identity.Identity, error) {
	if err := s.validator.ValidateLogin(f); err != nil {
		return identity.Anonymous(), err
	}

	user, err := s.Authenticate(f.Username, f.Password)
	if err != nil {
		return identity.Anonymous(), err
	}

	if err := s.sessions.CreateSession(r, user, f.Remember); err != nil {
		return identity.Anonymous(), fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.users.RecordLogin(user.ID, time.Now()); err != nil {
		log.Printf("Failed to record login for user %d: %v", user.ID, err)
	}

	return identity.FromEntity(user), nil
}

// Logout unbinds the session. Logging out an anonymous session is a no-op.
func (s *Service) Logout(r *http.Request) error {
	if !s.sessions.IsAuthenticated(r) {
		return nil
	}
	return s.sessions.DestroySession(r)
}

// CurrentIdentity resolves the caller of r. Sessions pointing at a deleted
// account resolve to Anonymous.
func (s *Service) CurrentIdentity(r *http.Request) (identity.Identity, error) {
	userID := s.sessions.GetUserID(r)
	if userID == 0 {
		return identity.Anonymous(), nil
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.Anonymous(), nil
		}
		return identity.Anonymous(), err
	}
	return identity.FromEntity(user), nil
}
