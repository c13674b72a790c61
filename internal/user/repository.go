package user

import (
	"context"

	"gorm.io/gorm"

	borrowingModel "terminal-terrace/library/internal/model/borrowing"
	userModel "terminal-terrace/library/internal/model/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]userModel.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userModel.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]userModel.User, 0, limit)
	err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*userModel.User, error) {
	var u userModel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsBy 检查 column 上是否已有该值, excludeID 非 0 时排除自身
func (r *UserRepository) ExistsBy(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&userModel.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *userModel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userModel.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) HasBorrowings(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&borrowingModel.Borrowing{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&userModel.User{}, id).Error
}
