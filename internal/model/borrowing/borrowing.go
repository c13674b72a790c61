package borrowing

import (
	"time"

	"terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/user"
)

// Borrowing 借阅记录, ReturnedAt 为空表示尚未归还
type Borrowing struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint       `gorm:"column:user_id;not null;index:idx_borrowings_active,priority:1" json:"user_id"`
	User       *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	BookID     uint       `gorm:"column:book_id;not null;index:idx_borrowings_active,priority:2" json:"book_id"`
	Book       *book.Book `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"book,omitempty"`
	BorrowedAt time.Time  `gorm:"column:borrowed_at;not null" json:"borrowed_at"`
	DueAt      time.Time  `gorm:"column:due_at;not null;index" json:"due_at"`
	ReturnedAt *time.Time `gorm:"column:returned_at;index:idx_borrowings_active,priority:3" json:"returned_at"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Borrowing) TableName() string {
	return "borrowings"
}

func (b *Borrowing) IsActive() bool {
	return b.ReturnedAt == nil
}
