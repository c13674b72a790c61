package book

import (
	"time"

	"terminal-terrace/library/internal/model/author"
)

// Book 馆藏图书, Available 为 false 时存在未归还的借阅
type Book struct {
	ID              uint           `gorm:"column:id;primaryKey" json:"id"`
	Title           string         `gorm:"column:title;size:255;not null;index" json:"title"`
	AuthorID        uint           `gorm:"column:author_id;not null;index" json:"author_id"`
	Author          *author.Author `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author,omitempty"`
	ISBN            string         `gorm:"column:isbn;size:20;not null;uniqueIndex" json:"isbn"`
	PublicationYear int            `gorm:"column:publication_year;not null" json:"publication_year"`
	Available       bool           `gorm:"column:available;not null" json:"available"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
