package borrowing

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookModel "terminal-terrace/library/internal/model/book"
	borrowingModel "terminal-terrace/library/internal/model/borrowing"
	userModel "terminal-terrace/library/internal/model/user"
)

type BorrowingRepository struct {
	db *gorm.DB
}

func NewBorrowingRepository(db *gorm.DB) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *BorrowingRepository) WithTx(tx *gorm.DB) *BorrowingRepository {
	return &BorrowingRepository{db: tx}
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// LockUser 锁住读者行, 同一读者的借还串行执行
func (r *BorrowingRepository) LockUser(ctx context.Context, id uint) (*userModel.User, error) {
	var u userModel.User
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *BorrowingRepository) LockBook(ctx context.Context, id uint) (*bookModel.Book, error) {
	var b bookModel.Book
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowingRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&borrowingModel.Borrowing{}).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// ClaimBook flips available to false only if it is still true.
func (r *BorrowingRepository) ClaimBook(ctx context.Context, bookID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&bookModel.Book{}).
		Where("id = ? AND available = ?", bookID, true).
		Update("available", false)
	return res.RowsAffected == 1, res.Error
}

func (r *BorrowingRepository) ReleaseBook(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).Model(&bookModel.Book{}).
		Where("id = ?", bookID).
		Update("available", true).Error
}

func (r *BorrowingRepository) Create(ctx context.Context, b *borrowingModel.Borrowing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// FindActiveForUpdate 读者对该书未归还的借阅, 最早的一条
func (r *BorrowingRepository) FindActiveForUpdate(ctx context.Context, userID, bookID uint) (*borrowingModel.Borrowing, error) {
	var b borrowingModel.Borrowing
	err := r.db.WithContext(ctx).Clauses(forUpdate()).
		Where("user_id = ? AND book_id = ? AND returned_at IS NULL", userID, bookID).
		Order("borrowed_at ASC").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// MarkReturned sets returned_at only on a still-active row.
func (r *BorrowingRepository) MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&borrowingModel.Borrowing{}).
		Where("id = ? AND returned_at IS NULL", id).
		Update("returned_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *BorrowingRepository) GetWithBook(ctx context.Context, id uint) (*borrowingModel.Borrowing, error) {
	var b borrowingModel.Borrowing
	if err := r.db.WithContext(ctx).Preload("Book.Author").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowingRepository) ListActive(ctx context.Context, userID uint) ([]borrowingModel.Borrowing, error) {
	borrowings := make([]borrowingModel.Borrowing, 0)
	err := r.db.WithContext(ctx).
		Preload("Book.Author").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("borrowed_at ASC, id ASC").
		Find(&borrowings).Error
	return borrowings, err
}
