package entities

import "time"

// MaxNoteLength bounds the content of a single note.
const MaxNoteLength = 250

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Note) TableName() string {
	return "notes"
}
