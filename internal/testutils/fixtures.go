package testutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/model/author"
	"terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/borrowing"
	"terminal-terrace/library/internal/model/user"
)

// DefaultPassword 测试用户的明文密码
const DefaultPassword = "password123"

// 测试夹具只做一次哈希, MinCost 加快测试
var defaultHash = mustHash(DefaultPassword)

func mustHash(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func shortID() string {
	return uuid.NewString()[:8]
}

// CreateTestUser creates a reader with a unique email and library id
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	id := shortID()
	testUser := &user.User{
		Name:      "Test User " + id,
		Email:     fmt.Sprintf("test_%s@example.com", id),
		Password:  defaultHash,
		LibraryID: "LIB-" + id,
		Role:      user.RoleUser,
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}
	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

func WithRole(role user.Role) UserOption {
	return func(u *user.User) {
		u.Role = role
	}
}

func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

func WithLibraryID(libraryID string) UserOption {
	return func(u *user.User) {
		u.LibraryID = libraryID
	}
}

func WithPassword(password string) UserOption {
	return func(u *user.User) {
		u.Password = mustHash(password)
	}
}

// CreateTestAuthor creates an author
func CreateTestAuthor(db *gorm.DB, name string) *author.Author {
	if name == "" {
		name = "Author " + shortID()
	}
	a := &author.Author{Name: name}
	if err := db.Create(a).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test author: %v", err))
	}
	return a
}

// CreateTestBook creates an available book, with a fresh author unless WithAuthor is given
func CreateTestBook(db *gorm.DB, opts ...BookOption) *book.Book {
	b := &book.Book{
		Title:           "Book " + shortID(),
		ISBN:            "978" + shortID(),
		PublicationYear: 2001,
		Available:       true,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.AuthorID == 0 {
		b.AuthorID = CreateTestAuthor(db, "").ID
	}

	if err := db.Create(b).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test book: %v", err))
	}
	return b
}

// BookOption configures test book
type BookOption func(*book.Book)

func WithAuthor(authorID uint) BookOption {
	return func(b *book.Book) {
		b.AuthorID = authorID
	}
}

func WithTitle(title string) BookOption {
	return func(b *book.Book) {
		b.Title = title
	}
}

func WithISBN(isbn string) BookOption {
	return func(b *book.Book) {
		b.ISBN = isbn
	}
}

func Unavailable() BookOption {
	return func(b *book.Book) {
		b.Available = false
	}
}

// CreateActiveBorrowing records an unreturned loan and marks the book unavailable
func CreateActiveBorrowing(db *gorm.DB, userID, bookID uint, borrowedAt time.Time) *borrowing.Borrowing {
	br := &borrowing.Borrowing{
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt.UTC(),
		DueAt:      borrowedAt.UTC().AddDate(0, 0, 14),
	}
	if err := db.Create(br).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test borrowing: %v", err))
	}
	if err := db.Model(&book.Book{}).Where("id = ?", bookID).Update("available", false).Error; err != nil {
		panic(fmt.Sprintf("Failed to mark book unavailable: %v", err))
	}
	return br
}
