package model

import (
	"gorm.io/gorm"

	"terminal-terrace/library/internal/model/author"
	"terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/borrowing"
	"terminal-terrace/library/internal/model/user"
)

func InitTable(db *gorm.DB) error {
	// 顺序与外键依赖一致
	return db.AutoMigrate(
		&user.User{},
		&author.Author{},
		&book.Book{},
		&borrowing.Borrowing{},
	)
}
