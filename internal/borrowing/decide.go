package borrowing

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrBookUnavailable    = errors.New("book is currently unavailable")
	ErrBorrowLimitReached = errors.New("user has reached the active borrowing limit")
	ErrNoActiveBorrowing  = errors.New("no active borrowing for this book")
)

// Policy 借阅规则
type Policy struct {
	LoanDays  int // 借期, 自然日
	MaxActive int // 每位读者同时在借上限
}

// DefaultPolicy 14 天借期, 最多 3 本
var DefaultPolicy = Policy{LoanDays: 14, MaxActive: 3}

// borrowState 在事务中加锁读取的当前状态
type borrowState struct {
	bookAvailable bool
	activeCount   int64
}

// loanTerms 允许借出时的借期
type loanTerms struct {
	borrowedAt time.Time
	dueAt      time.Time
}

// decideBorrow is a pure rule check over the locked state.
// Unavailability is reported before the per-user limit.
func decideBorrow(s borrowState, p Policy, now time.Time) (loanTerms, error) {
	if !s.bookAvailable {
		return loanTerms{}, ErrBookUnavailable
	}
	if s.activeCount >= int64(p.MaxActive) {
		return loanTerms{}, ErrBorrowLimitReached
	}

	borrowedAt := now.UTC()
	return loanTerms{
		borrowedAt: borrowedAt,
		dueAt:      borrowedAt.AddDate(0, 0, p.LoanDays),
	}, nil
}
