package report

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const (
	tableBorrowings = "borrowings"
	tableBooks      = "books"
	tableUsers      = "users"
)

// OverdueRow 逾期借阅投影
type OverdueRow struct {
	BorrowingID uint      `db:"borrowing_id" json:"borrowing_id"`
	UserID      uint      `db:"user_id" json:"user_id"`
	UserName    string    `db:"user_name" json:"user_name"`
	Email       string    `db:"email" json:"email"`
	LibraryID   string    `db:"library_id" json:"library_id"`
	BookID      uint      `db:"book_id" json:"book_id"`
	Title       string    `db:"title" json:"title"`
	ISBN        string    `db:"isbn" json:"isbn"`
	BorrowedAt  time.Time `db:"borrowed_at" json:"borrowed_at"`
	DueAt       time.Time `db:"due_at" json:"due_at"`
	DaysOverdue int       `db:"-" json:"days_overdue"`
}

// Summary 馆藏与流通统计
type Summary struct {
	Books             int64 `json:"books"`
	AvailableBooks    int64 `json:"available_books"`
	ActiveBorrowings  int64 `json:"active_borrowings"`
	OverdueBorrowings int64 `json:"overdue_borrowings"`
	Users             int64 `json:"users"`
}

// Repository read-only projections over the shared connection pool.
type Repository struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewRepository reuses gorm's *sql.DB; the goqu dialect follows the gorm driver.
func NewRepository(gdb *gorm.DB) (*Repository, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("report repository: %w", err)
	}

	dialect, driver := "postgres", "pgx"
	if gdb.Dialector.Name() == "sqlite" {
		dialect, driver = "sqlite3", "sqlite3"
	}

	return &Repository{
		db:      sqlx.NewDb(sqlDB, driver),
		dialect: goqu.Dialect(dialect),
	}, nil
}

// Overdue 截止时间早于 now 且未归还的借阅, 最早到期的在前
func (r *Repository) Overdue(ctx context.Context, now time.Time) ([]OverdueRow, error) {
	query, args, err := r.dialect.
		From(goqu.T(tableBorrowings).As("br")).
		Join(goqu.T(tableUsers).As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("br.user_id")))).
		Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Select(
			goqu.I("br.id").As("borrowing_id"),
			goqu.I("u.id").As("user_id"),
			goqu.I("u.name").As("user_name"),
			goqu.I("u.email").As("email"),
			goqu.I("u.library_id").As("library_id"),
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title").As("title"),
			goqu.I("b.isbn").As("isbn"),
			goqu.I("br.borrowed_at").As("borrowed_at"),
			goqu.I("br.due_at").As("due_at"),
		).
		Where(
			goqu.I("br.returned_at").IsNull(),
			goqu.I("br.due_at").Lt(now.UTC()),
		).
		Order(goqu.I("br.due_at").Asc(), goqu.I("br.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build overdue query: %w", err)
	}

	rows := make([]OverdueRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query overdue borrowings: %w", err)
	}
	return rows, nil
}

func (r *Repository) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	active := goqu.C("returned_at").IsNull()
	s := &Summary{}

	for _, c := range []struct {
		dest *int64
		ds   *goqu.SelectDataset
	}{
		{&s.Books, r.dialect.From(tableBooks)},
		{&s.AvailableBooks, r.dialect.From(tableBooks).Where(goqu.C("available").Eq(true))},
		{&s.ActiveBorrowings, r.dialect.From(tableBorrowings).Where(active)},
		{&s.OverdueBorrowings, r.dialect.From(tableBorrowings).Where(active, goqu.C("due_at").Lt(now.UTC()))},
		{&s.Users, r.dialect.From(tableUsers)},
	} {
		n, err := r.count(ctx, c.ds)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return s, nil
}

func (r *Repository) count(ctx context.Context, ds *goqu.SelectDataset) (int64, error) {
	query, args, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
