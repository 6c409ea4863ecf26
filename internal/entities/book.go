package entities

import "time"

// Placeholder values used when catalog data omits a field.
const (
	UnknownWriter = "N/A"
	UnknownGenre  = "N/A"
	DefaultCover  = "default_book.jpg"
)

// Book is an entry of the shared, read-only catalog.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Writer    string    `gorm:"size:100;not null;default:'N/A'" json:"writer"`
	Genre     string    `gorm:"index;size:50;not null;default:'N/A'" json:"genre"`
	Image     string    `gorm:"size:64;not null" json:"img"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

// OwnedBook is a user's private snapshot of a catalog book. It keeps no
// reference to the catalog row, so catalog changes never reach it.
type OwnedBook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Writer    string    `gorm:"size:100;not null;default:'N/A'" json:"writer"`
	Genre     string    `gorm:"size:50;not null;default:'N/A'" json:"genre"`
	Image     string    `gorm:"size:64;not null" json:"img"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (OwnedBook) TableName() string {
	return "owned_books"
}

// Snapshot copies the catalog fields of b into a new OwnedBook for userID.
func (b Book) Snapshot(userID uint) OwnedBook {
	return OwnedBook{
		UserID: userID,
		Title:  b.Title,
		Writer: b.Writer,
		Genre:  b.Genre,
		Image:  b.Image,
	}
}
