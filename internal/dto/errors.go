package dto

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	res "terminal-terrace/library/packages/response"
)

// StoreError classifies a repository failure; action reads like "creating book".
// Constraint violations are client errors, everything else is a 500.
func StoreError(err error, action string) *res.BusinessError {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return res.NewBusinessError(
			res.WithErrorCode(res.Integrity),
			res.WithErrorMessage(fmt.Sprintf("Database error while %s.", action)),
			res.WithError(err),
		)
	}
	return res.NewBusinessError(
		res.WithErrorCode(res.Fail),
		res.WithErrorMessage(fmt.Sprintf("Unexpected error while %s.", action)),
		res.WithError(err),
	)
}

// HandleError renders err, treating anything that is not a business error as a 500.
func HandleError(c *gin.Context, err error) {
	var be *res.BusinessError
	if !errors.As(err, &be) {
		be = res.NewBusinessError(res.WithError(err))
	}
	ErrorResponse(c, be)
}
