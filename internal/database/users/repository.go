// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername("alice")
package users

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new account. An empty avatar falls back to the placeholder.
func (r *Repository) CreateUser(user *entities.User) error {
	if user.Avatar == "" {
		user.Avatar = entities.DefaultAvatar
	}
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact, case-sensitive username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another account (other than exceptID) uses username.
// Pass exceptID 0 to check against every account.
func (r *Repository) UsernameTaken(username string, exceptID uint) (bool, error) {
	return r.taken("username", username, exceptID)
}

// EmailTaken reports whether another account (other than exceptID) uses email.
func (r *Repository) EmailTaken(email string, exceptID uint) (bool, error) {
	return r.taken("email", email, exceptID)
}

func (r *Repository) taken(column, value string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.User{}).Where(column+" = ?", value)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile overwrites the identity fields of a user.
func (r *Repository) UpdateProfile(id uint, username, email, avatar string) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"username": username,
		"email":    email,
		"avatar":   avatar,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordLogin stores the time of the latest successful login.
func (r *Repository) RecordLogin(id uint, at time.Time) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// ListAvatars returns every avatar filename currently referenced by an account.
func (r *Repository) ListAvatars() ([]string, error) {
	var avatars []string
	err := r.db.Model(&entities.User{}).Distinct().Pluck("avatar", &avatars).Error
	return avatars, err
}

// CountUsers returns the number of registered accounts.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
