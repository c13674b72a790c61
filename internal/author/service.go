package author

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/library/internal/dto"
	authorModel "terminal-terrace/library/internal/model/author"
)

type AuthorService struct {
	repo *AuthorRepository
}

func NewAuthorService(db *gorm.DB) *AuthorService {
	return &AuthorService{repo: NewAuthorRepository(db)}
}

func (s *AuthorService) List(ctx context.Context, page dto.Page) ([]authorModel.Author, int64, error) {
	authors, total, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, dto.StoreError(err, "retrieving authors")
	}
	return authors, total, nil
}

func (s *AuthorService) Create(ctx context.Context, req CreateAuthorRequest) (*authorModel.Author, error) {
	a := &authorModel.Author{Name: strings.TrimSpace(req.Name)}
	// 空字符串按未填写处理
	if req.Bio != nil && strings.TrimSpace(*req.Bio) != "" {
		bio := strings.TrimSpace(*req.Bio)
		a.Bio = &bio
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, dto.StoreError(err, "creating author")
	}
	return a, nil
}
