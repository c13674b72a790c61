package author

import (
	"context"

	"gorm.io/gorm"

	authorModel "terminal-terrace/library/internal/model/author"
)

type AuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) List(ctx context.Context, offset, limit int) ([]authorModel.Author, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&authorModel.Author{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	authors := make([]authorModel.Author, 0, limit)
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Offset(offset).Limit(limit).Find(&authors).Error
	return authors, total, err
}

func (r *AuthorRepository) Create(ctx context.Context, a *authorModel.Author) error {
	return r.db.WithContext(ctx).Create(a).Error
}
