package seed

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/borrowing"
	"terminal-terrace/library/internal/testutils"
)

func TestRunKeepsAvailabilityConsistent(t *testing.T) {
	db := testutils.SetupTestDB(t)
	now := time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)

	res, err := Run(context.Background(), db, rand.New(rand.NewPCG(1, 2)), now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Users)
	assert.Equal(t, 4, res.Authors)
	assert.Equal(t, 12, res.Books)

	var books []book.Book
	require.NoError(t, db.Find(&books).Error)
	for _, b := range books {
		var active int64
		require.NoError(t, db.Model(&borrowing.Borrowing{}).
			Where("book_id = ? AND returned_at IS NULL", b.ID).
			Count(&active).Error)
		assert.Equal(t, !b.Available, active == 1, "book %q", b.Title)
		assert.LessOrEqual(t, active, int64(1))
	}

	var loans []borrowing.Borrowing
	require.NoError(t, db.Find(&loans).Error)
	perUser := map[uint]int{}
	for _, l := range loans {
		assert.True(t, l.DueAt.Equal(l.BorrowedAt.AddDate(0, 0, 14)))
		if l.ReturnedAt == nil {
			perUser[l.UserID]++
		} else {
			assert.False(t, l.ReturnedAt.After(now))
		}
	}
	for id, n := range perUser {
		assert.LessOrEqual(t, n, maxActive, "user %d", id)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	_, err := Run(ctx, db, nil, time.Now())
	require.NoError(t, err)

	_, err = Run(ctx, db, nil, time.Now())
	assert.ErrorIs(t, err, ErrAlreadySeeded)
}
