package book

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/library/internal/dto"
	bookModel "terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/packages/response"
)

const (
	MsgBookNotFound   = "Book not found."
	MsgQueryRequired  = `Query parameter "q" is required.`
	MsgAuthorInvalid  = "The selected author id is invalid."
	MsgISBNTaken      = "The isbn has already been taken."
	MsgStillBorrowed  = "This book has an active borrowing and cannot be marked available."
	msgUnexpectedRead = "Unexpected error while retrieving book."
)

type BookService struct {
	repo *BookRepository
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{repo: NewBookRepository(db)}
}

func (s *BookService) List(ctx context.Context, page dto.Page) ([]bookModel.Book, int64, error) {
	books, total, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, dto.StoreError(err, "retrieving books")
	}
	return books, total, nil
}

// Search 空结果不是错误
func (s *BookService) Search(ctx context.Context, q string, page dto.Page) ([]bookModel.Book, int64, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, response.NewBadRequest(MsgQueryRequired)
	}

	books, total, err := s.repo.Search(ctx, q, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, dto.StoreError(err, "searching books")
	}
	return books, total, nil
}

func (s *BookService) Get(ctx context.Context, id uint) (*bookModel.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(MsgBookNotFound)
		}
		return nil, response.NewBusinessError(response.WithErrorMessage(msgUnexpectedRead), response.WithError(err))
	}
	return b, nil
}

func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*bookModel.Book, error) {
	b := &bookModel.Book{
		Title:           strings.TrimSpace(req.Title),
		AuthorID:        req.AuthorID,
		ISBN:            strings.TrimSpace(req.ISBN),
		PublicationYear: req.PublicationYear,
		Available:       true,
	}
	// available=false 表示下架, 不影响借阅不变式
	if req.Available != nil {
		b.Available = *req.Available
	}

	if err := s.checkReferences(ctx, b, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, dto.StoreError(err, "creating book")
	}
	return s.Get(ctx, b.ID)
}

func (s *BookService) Update(ctx context.Context, id uint, req UpdateBookRequest) (*bookModel.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.AuthorID != nil {
		b.AuthorID = *req.AuthorID
	}
	if req.ISBN != nil {
		b.ISBN = strings.TrimSpace(*req.ISBN)
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}

	if err := s.checkReferences(ctx, b, b.ID); err != nil {
		return nil, err
	}

	if req.Available != nil && *req.Available && !b.Available {
		borrowed, err := s.repo.HasActiveBorrowing(ctx, b.ID)
		if err != nil {
			return nil, dto.StoreError(err, "updating book")
		}
		if borrowed {
			return nil, response.NewBadRequest(MsgStillBorrowed)
		}
	}
	if req.Available != nil {
		b.Available = *req.Available
	}

	b.Author = nil
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, dto.StoreError(err, "updating book")
	}
	return s.Get(ctx, b.ID)
}

// Delete 有借阅记录的图书不能删除, 返回 400; 外键兜底
func (s *BookService) Delete(ctx context.Context, id uint) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := s.repo.HasBorrowings(ctx, b.ID)
	if err != nil {
		return dto.StoreError(err, "deleting book")
	}
	if referenced {
		return dto.StoreError(gorm.ErrForeignKeyViolated, "deleting book")
	}
	if err := s.repo.Delete(ctx, b.ID); err != nil {
		return dto.StoreError(err, "deleting book")
	}
	return nil
}

// checkReferences 校验作者存在与 ISBN 唯一
func (s *BookService) checkReferences(ctx context.Context, b *bookModel.Book, excludeID uint) error {
	opts := []response.ErrorOption{response.WithErrorCode(response.InvalidParameter)}
	var messages []string

	exists, err := s.repo.AuthorExists(ctx, b.AuthorID)
	if err != nil {
		return dto.StoreError(err, "validating book")
	}
	if !exists {
		opts = append(opts, response.WithFieldError("author_id", MsgAuthorInvalid))
		messages = append(messages, MsgAuthorInvalid)
	}

	taken, err := s.repo.ISBNTaken(ctx, b.ISBN, excludeID)
	if err != nil {
		return dto.StoreError(err, "validating book")
	}
	if taken {
		opts = append(opts, response.WithFieldError("isbn", MsgISBNTaken))
		messages = append(messages, MsgISBNTaken)
	}

	if len(messages) == 0 {
		return nil
	}
	msg := messages[0]
	if len(messages) > 1 {
		msg += " (and 1 more error)"
	}
	return response.NewBusinessError(append(opts, response.WithErrorMessage(msg))...)
}
