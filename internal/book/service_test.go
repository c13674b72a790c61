package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/internal/testutils"
	"terminal-terrace/library/packages/response"
)

func assertBusinessError(t *testing.T, err error, code response.ResponseCode, msg string) *response.BusinessError {
	t.Helper()
	var bizErr *response.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, code, bizErr.Code)
	assert.Equal(t, msg, bizErr.Msg)
	return bizErr
}

func ptr[T any](v T) *T { return &v }

func TestCreateBook(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	ctx := context.Background()
	a := testutils.CreateTestAuthor(db, "Hermann Hesse")

	b, err := svc.Create(ctx, CreateBookRequest{
		Title:           " Siddhartha ",
		AuthorID:        a.ID,
		ISBN:            "9780553208849",
		PublicationYear: 1922,
	})
	require.NoError(t, err)
	assert.Equal(t, "Siddhartha", b.Title)
	assert.True(t, b.Available)
	require.NotNil(t, b.Author)
	assert.Equal(t, "Hermann Hesse", b.Author.Name)

	withdrawn, err := svc.Create(ctx, CreateBookRequest{
		Title:           "Steppenwolf",
		AuthorID:        a.ID,
		ISBN:            "9780312278670",
		PublicationYear: 1927,
		Available:       ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, withdrawn.Available)
}

func TestCreateBookReferences(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	existing := testutils.CreateTestBook(db, testutils.WithISBN("111"))

	_, err := svc.Create(context.Background(), CreateBookRequest{
		Title: "x", AuthorID: existing.AuthorID, ISBN: "111", PublicationYear: 2000,
	})
	bizErr := assertBusinessError(t, err, response.InvalidParameter, MsgISBNTaken)
	assert.Equal(t, []string{MsgISBNTaken}, bizErr.Fields["isbn"])

	_, err = svc.Create(context.Background(), CreateBookRequest{
		Title: "x", AuthorID: 9999, ISBN: "111", PublicationYear: 2000,
	})
	bizErr = assertBusinessError(t, err, response.InvalidParameter, MsgAuthorInvalid+" (and 1 more error)")
	assert.Len(t, bizErr.Fields, 2)
}

func TestUpdateBook(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	ctx := context.Background()
	b := testutils.CreateTestBook(db, testutils.WithISBN("222"))

	updated, err := svc.Update(ctx, b.ID, UpdateBookRequest{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "222", updated.ISBN)

	// 自身的 ISBN 不算重复
	_, err = svc.Update(ctx, b.ID, UpdateBookRequest{ISBN: ptr("222")})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, 9999, UpdateBookRequest{})
	assertBusinessError(t, err, response.NotFound, MsgBookNotFound)
}

func TestUpdateBookAvailability(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	ctx := context.Background()
	reader := testutils.CreateTestUser(db)

	borrowed := testutils.CreateTestBook(db)
	testutils.CreateActiveBorrowing(db, reader.ID, borrowed.ID, time.Now())

	_, err := svc.Update(ctx, borrowed.ID, UpdateBookRequest{Available: ptr(true)})
	assertBusinessError(t, err, response.BusinessRule, MsgStillBorrowed)

	withdrawn := testutils.CreateTestBook(db, testutils.Unavailable())
	b, err := svc.Update(ctx, withdrawn.ID, UpdateBookRequest{Available: ptr(true)})
	require.NoError(t, err)
	assert.True(t, b.Available)
}

func TestSearchBooks(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	ctx := context.Background()
	page := dto.Page{Number: 1, Size: dto.PerPage}

	hesse := testutils.CreateTestAuthor(db, "Hermann Hesse")
	testutils.CreateTestBook(db, testutils.WithAuthor(hesse.ID), testutils.WithTitle("Siddhartha"))
	testutils.CreateTestBook(db, testutils.WithTitle("Clean Code"), testutils.WithISBN("9780132350884"))
	testutils.CreateTestBook(db, testutils.WithTitle("100% Pure"))

	tests := []struct {
		name  string
		q     string
		total int64
	}{
		{"按书名", "sidd", 1},
		{"按作者", "HESSE", 1},
		{"按 ISBN", "0132350", 1},
		{"通配符按字面匹配", "100%", 1},
		{"无结果", "nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := svc.Search(ctx, tt.q, page)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, books, int(tt.total))
		})
	}

	_, _, err := svc.Search(ctx, "   ", page)
	assertBusinessError(t, err, response.BusinessRule, MsgQueryRequired)
}

func TestListBooksPaginates(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	a := testutils.CreateTestAuthor(db, "")
	for i := 0; i < 12; i++ {
		testutils.CreateTestBook(db, testutils.WithAuthor(a.ID))
	}

	books, total, err := svc.List(context.Background(), dto.Page{Number: 2, Size: dto.PerPage})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, books, 2)
	require.NotNil(t, books[0].Author)
}

func TestDeleteBook(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewBookService(db)
	ctx := context.Background()

	b := testutils.CreateTestBook(db)
	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err := svc.Get(ctx, b.ID)
	assertBusinessError(t, err, response.NotFound, MsgBookNotFound)

	reader := testutils.CreateTestUser(db)
	borrowed := testutils.CreateTestBook(db)
	testutils.CreateActiveBorrowing(db, reader.ID, borrowed.ID, time.Now())

	returned := testutils.CreateTestBook(db)
	br := testutils.CreateActiveBorrowing(db, reader.ID, returned.ID, time.Now().Add(-48*time.Hour))
	require.NoError(t, db.Model(br).Update("returned_at", time.Now()).Error)

	tests := []struct {
		name string
		id   uint
	}{
		{"借阅中", borrowed.ID},
		{"已归还仍有记录", returned.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Delete(ctx, tt.id)
			assertBusinessError(t, err, response.Integrity, "Database error while deleting book.")

			_, err = svc.Get(ctx, tt.id)
			assert.NoError(t, err)
		})
	}
}
