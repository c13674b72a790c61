package borrowing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	borrowingModel "terminal-terrace/library/internal/model/borrowing"
	userModel "terminal-terrace/library/internal/model/user"
)

// Notifier 借出成功后的通知, 失败只记日志
type Notifier interface {
	BorrowReceipt(ctx context.Context, reader *userModel.User, b *borrowingModel.Borrowing) error
}

const notifyTimeout = 30 * time.Second

type BorrowingService struct {
	db       *gorm.DB
	repo     *BorrowingRepository
	policy   Policy
	now      func() time.Time
	notifier Notifier
}

type Option func(*BorrowingService)

func WithPolicy(p Policy) Option {
	return func(s *BorrowingService) {
		s.policy = p
	}
}

// WithClock 注入时钟, 测试用
func WithClock(now func() time.Time) Option {
	return func(s *BorrowingService) {
		s.now = now
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *BorrowingService) {
		s.notifier = n
	}
}

func NewBorrowingService(db *gorm.DB, opts ...Option) *BorrowingService {
	s := &BorrowingService{
		db:     db,
		repo:   NewBorrowingRepository(db),
		policy: DefaultPolicy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BorrowingService) Policy() Policy {
	return s.policy
}

// Borrow lends bookID to userID. The user and book rows are locked for the
// whole transaction and the book is claimed with a conditional update, so
// concurrent requests cannot lend the same copy twice or exceed the limit.
func (s *BorrowingService) Borrow(ctx context.Context, userID, bookID uint) (*borrowingModel.Borrowing, error) {
	var (
		reader  *userModel.User
		created *borrowingModel.Borrowing
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		u, err := repo.LockUser(ctx, userID)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		reader = u

		book, err := repo.LockBook(ctx, bookID)
		if err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}

		active, err := repo.CountActive(ctx, userID)
		if err != nil {
			return fmt.Errorf("count active borrowings: %w", err)
		}

		terms, err := decideBorrow(borrowState{bookAvailable: book.Available, activeCount: active}, s.policy, s.now())
		if err != nil {
			return err
		}

		claimed, err := repo.ClaimBook(ctx, book.ID)
		if err != nil {
			return fmt.Errorf("claim book: %w", err)
		}
		if !claimed {
			return ErrBookUnavailable
		}

		b := &borrowingModel.Borrowing{
			UserID:     userID,
			BookID:     book.ID,
			BorrowedAt: terms.borrowedAt,
			DueAt:      terms.dueAt,
		}
		if err := repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create borrowing: %w", err)
		}

		created, err = repo.GetWithBook(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("reload borrowing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("book borrowed",
		zap.Uint("borrowing_id", created.ID),
		zap.Uint("user_id", userID),
		zap.Uint("book_id", bookID),
		zap.Time("due_at", created.DueAt),
	)
	s.notifyBorrowed(ctx, reader, created)
	return created, nil
}

// Return closes the caller's active borrowing of bookID and puts the book back
// into circulation in the same transaction.
func (s *BorrowingService) Return(ctx context.Context, userID, bookID uint) (*borrowingModel.Borrowing, error) {
	var returned *borrowingModel.Borrowing

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.LockUser(ctx, userID); err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		if _, err := repo.LockBook(ctx, bookID); err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}

		active, err := repo.FindActiveForUpdate(ctx, userID, bookID)
		if err != nil {
			return notFoundAs(err, ErrNoActiveBorrowing)
		}

		ok, err := repo.MarkReturned(ctx, active.ID, s.now().UTC())
		if err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		if !ok {
			return ErrNoActiveBorrowing
		}

		if err := repo.ReleaseBook(ctx, bookID); err != nil {
			return fmt.Errorf("release book: %w", err)
		}

		returned, err = repo.GetWithBook(ctx, active.ID)
		if err != nil {
			return fmt.Errorf("reload borrowing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("book returned",
		zap.Uint("borrowing_id", returned.ID),
		zap.Uint("user_id", userID),
		zap.Uint("book_id", bookID),
	)
	return returned, nil
}

// ListActive 读者当前在借的图书, 按借出时间排序
func (s *BorrowingService) ListActive(ctx context.Context, userID uint) ([]borrowingModel.Borrowing, error) {
	borrowings, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active borrowings: %w", err)
	}
	return borrowings, nil
}

func (s *BorrowingService) notifyBorrowed(ctx context.Context, reader *userModel.User, b *borrowingModel.Borrowing) {
	if s.notifier == nil || reader == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.BorrowReceipt(ctx, reader, b); err != nil {
			zap.L().Warn("send borrow receipt",
				zap.Uint("borrowing_id", b.ID),
				zap.String("email", reader.Email),
				zap.Error(err),
			)
		}
	}()
}

func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
