package borrowing

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/packages/response"
)

const (
	MsgBookDoesNotExist  = "The selected book does not exist."
	MsgBookUnavailable   = "This book is currently unavailable."
	MsgNoActiveBorrowing = "No active borrowing found for this book."
	MsgNotAuthorized     = "This action is unauthorized."
	MsgViewForbidden     = "You are not authorized to view this user’s borrowed books."
)

type BorrowingHandler struct {
	borrowingService *BorrowingService
}

// toBusinessError 将领域错误映射为响应
func (h *BorrowingHandler) toBusinessError(err error, action string) *response.BusinessError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return response.NewNotFound(middleware.MsgUserNotFound)
	case errors.Is(err, ErrBookNotFound):
		return response.NewFieldError("book_id", MsgBookDoesNotExist)
	case errors.Is(err, ErrBookUnavailable):
		return response.NewBadRequest(MsgBookUnavailable)
	case errors.Is(err, ErrBorrowLimitReached):
		return response.NewBadRequest(fmt.Sprintf("User already has %d borrowed books.", h.borrowingService.Policy().MaxActive))
	case errors.Is(err, ErrNoActiveBorrowing):
		return response.NewNotFound(MsgNoActiveBorrowing)
	default:
		return response.NewBusinessError(
			response.WithErrorMessage(fmt.Sprintf("Unexpected error while %s.", action)),
			response.WithError(err),
		)
	}
}

// Borrow 借书
// @Summary 借书
// @Description 为读者借出一本在架图书, 借期 14 天
// @Tags 借阅
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "读者ID"
// @Param request body BookActionRequest true "图书"
// @Success 201 {object} response.Response{data=borrowingModel.Borrowing}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /users/{id}/borrow [post]
func (h *BorrowingHandler) Borrow(c *gin.Context) {
	reader := middleware.TargetUser(c)

	var req BookActionRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	b, err := h.borrowingService.Borrow(c.Request.Context(), reader.ID, req.BookID)
	if err != nil {
		dto.ErrorResponse(c, h.toBusinessError(err, "borrowing book"))
		return
	}
	dto.CreatedResponse(c, "Book borrowed successfully.", b)
}

// Return 还书
// @Summary 还书
// @Tags 借阅
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "读者ID"
// @Param request body BookActionRequest true "图书"
// @Success 200 {object} response.Response{data=borrowingModel.Borrowing}
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id}/return [post]
func (h *BorrowingHandler) Return(c *gin.Context) {
	reader := middleware.TargetUser(c)

	var req BookActionRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	b, err := h.borrowingService.Return(c.Request.Context(), reader.ID, req.BookID)
	if err != nil {
		dto.ErrorResponse(c, h.toBusinessError(err, "returning book"))
		return
	}
	dto.SuccessResponse(c, "Book returned successfully.", b)
}

// Borrowed 在借图书
// @Summary 读者在借图书
// @Tags 借阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "读者ID"
// @Success 200 {object} response.Response{data=[]borrowingModel.Borrowing}
// @Failure 403 {object} response.ErrorBody
// @Router /users/{id}/borrowed [get]
func (h *BorrowingHandler) Borrowed(c *gin.Context) {
	reader := middleware.TargetUser(c)

	borrowings, err := h.borrowingService.ListActive(c.Request.Context(), reader.ID)
	if err != nil {
		dto.ErrorResponse(c, h.toBusinessError(err, "retrieving borrowed books"))
		return
	}
	dto.SuccessResponse(c, "Borrowed books retrieved successfully.", borrowings)
}
