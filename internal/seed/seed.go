// Package seed 演示数据
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/model/author"
	"terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/borrowing"
	"terminal-terrace/library/internal/model/user"
)

const (
	AdminEmail      = "admin@example.com"
	UserEmail       = "user@example.com"
	DefaultPassword = "12345678%"

	loanDays  = 14
	maxActive = 3
)

// ErrAlreadySeeded 管理员账号已存在
var ErrAlreadySeeded = errors.New("database already seeded")

type catalogEntry struct {
	name  string
	bio   string
	books []book.Book
}

var catalog = []catalogEntry{
	{
		name: "Gabriel Garcia Marquez",
		bio:  "Colombian novelist, short-story writer, screenwriter, and journalist, known for magical realism.",
		books: []book.Book{
			{Title: "One Hundred Years of Solitude", ISBN: "9780060883287", PublicationYear: 1967},
			{Title: "Love in the Time of Cholera", ISBN: "9780307389732", PublicationYear: 1985},
			{Title: "Chronicle of a Death Foretold", ISBN: "9781400034710", PublicationYear: 1981},
		},
	},
	{
		name: "Hermann Hesse",
		bio:  "German-born Swiss poet, novelist, and painter, famous for works exploring spirituality and self-discovery.",
		books: []book.Book{
			{Title: "Siddhartha", ISBN: "9780553208849", PublicationYear: 1922},
			{Title: "Steppenwolf", ISBN: "9780312278670", PublicationYear: 1927},
		},
	},
	{
		name: "Ernest Hemingway",
		bio:  "American novelist and short story writer, awarded the Nobel Prize in Literature in 1954.",
		books: []book.Book{
			{Title: "The Old Man and the Sea", ISBN: "9780684801223", PublicationYear: 1952},
			{Title: "A Farewell to Arms", ISBN: "9780684801469", PublicationYear: 1929},
			{Title: "For Whom the Bell Tolls", ISBN: "9780684803357", PublicationYear: 1940},
			{Title: "The Sun Also Rises", ISBN: "9780743297332", PublicationYear: 1926},
		},
	},
	{
		name: "Robert C. Martin",
		bio:  "American software engineer and author, widely known for his work on clean code and software craftsmanship.",
		books: []book.Book{
			{Title: "Clean Code", ISBN: "9780132350884", PublicationYear: 2008},
			{Title: "The Clean Coder", ISBN: "9780137081073", PublicationYear: 2011},
			{Title: "Clean Architecture", ISBN: "9780134494166", PublicationYear: 2017},
		},
	},
}

// Result 本次写入的数量
type Result struct {
	Users            int
	Authors          int
	Books            int
	Borrowings       int
	ActiveBorrowings int
}

// Run seeds demo data in one transaction. Each book is borrowed with
// probability 1/2 and half of those loans are already returned, so a book is
// unavailable exactly when it has an active loan.
func Run(ctx context.Context, db *gorm.DB, rng *rand.Rand, now time.Time) (*Result, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	}
	now = now.UTC()
	res := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&user.User{}).Where("email = ?", AdminEmail).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadySeeded
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		readers := []*user.User{
			{Name: "Admin User", Email: AdminEmail, Password: string(hash), LibraryID: "LIB-0001", Role: user.RoleAdmin},
			{Name: "Library User", Email: UserEmail, Password: string(hash), LibraryID: "LIB-0002", Role: user.RoleUser},
		}
		if err := tx.Create(readers).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}
		res.Users = len(readers)

		var books []*book.Book
		for _, entry := range catalog {
			bio := entry.bio
			a := &author.Author{Name: entry.name, Bio: &bio}
			if err := tx.Create(a).Error; err != nil {
				return fmt.Errorf("create author %q: %w", entry.name, err)
			}
			res.Authors++

			for _, tmpl := range entry.books {
				b := tmpl
				b.AuthorID = a.ID
				b.Available = true
				if err := tx.Create(&b).Error; err != nil {
					return fmt.Errorf("create book %q: %w", b.Title, err)
				}
				books = append(books, &b)
			}
		}
		res.Books = len(books)

		active := make(map[uint]int, len(readers))
		for _, b := range books {
			if rng.IntN(2) == 0 {
				continue
			}
			reader := readers[rng.IntN(len(readers))]

			borrowedAt := now.Add(-time.Duration(rng.Int64N(int64(30 * 24 * time.Hour))))
			br := &borrowing.Borrowing{
				UserID:     reader.ID,
				BookID:     b.ID,
				BorrowedAt: borrowedAt,
				DueAt:      borrowedAt.AddDate(0, 0, loanDays),
			}

			returned := rng.IntN(2) == 0 || active[reader.ID] >= maxActive
			if returned {
				at := borrowedAt.AddDate(0, 0, 1+rng.IntN(loanDays))
				if at.After(now) {
					at = now
				}
				br.ReturnedAt = &at
			}

			if err := tx.Create(br).Error; err != nil {
				return fmt.Errorf("create borrowing: %w", err)
			}
			res.Borrowings++

			if br.IsActive() {
				active[reader.ID]++
				res.ActiveBorrowings++
				if err := tx.Model(b).Update("available", false).Error; err != nil {
					return fmt.Errorf("mark book unavailable: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("seeded library",
		zap.Int("users", res.Users),
		zap.Int("authors", res.Authors),
		zap.Int("books", res.Books),
		zap.Int("borrowings", res.Borrowings),
	)
	return res, nil
}
