package book

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authorModel "terminal-terrace/library/internal/model/author"
	bookModel "terminal-terrace/library/internal/model/book"
	borrowingModel "terminal-terrace/library/internal/model/borrowing"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) List(ctx context.Context, offset, limit int) ([]bookModel.Book, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&bookModel.Book{}), offset, limit)
}

// Search 标题、作者名或 ISBN 的不区分大小写子串匹配
func (r *BookRepository) Search(ctx context.Context, q string, offset, limit int) ([]bookModel.Book, int64, error) {
	like := "%" + escapeLike(strings.ToLower(q)) + "%"
	query := r.db.WithContext(ctx).Model(&bookModel.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id").
		Where(`LOWER(books.title) LIKE ? ESCAPE '\' OR LOWER(authors.name) LIKE ? ESCAPE '\' OR LOWER(books.isbn) LIKE ? ESCAPE '\'`, like, like, like)
	return r.page(query, offset, limit)
}

func (r *BookRepository) page(query *gorm.DB, offset, limit int) ([]bookModel.Book, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	books := make([]bookModel.Book, 0, limit)
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order("books.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	return books, total, err
}

func (r *BookRepository) GetByID(ctx context.Context, id uint) (*bookModel.Book, error) {
	var b bookModel.Book
	if err := r.db.WithContext(ctx).Preload("Author").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepository) AuthorExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&authorModel.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *BookRepository) ISBNTaken(ctx context.Context, isbn string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&bookModel.Book{}).Where("isbn = ?", isbn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *BookRepository) HasActiveBorrowing(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&borrowingModel.Borrowing{}).
		Where("book_id = ? AND returned_at IS NULL", bookID).
		Count(&count).Error
	return count > 0, err
}

// HasBorrowings 含已归还的记录
func (r *BookRepository) HasBorrowings(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&borrowingModel.Borrowing{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count > 0, err
}

func (r *BookRepository) Create(ctx context.Context, b *bookModel.Book) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BookRepository) Save(ctx context.Context, b *bookModel.Book) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&bookModel.Book{}, id).Error
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
