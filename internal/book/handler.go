package book

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/packages/response"
)

type BookHandler struct {
	bookService *BookService
}

func notFound(c *gin.Context) {
	dto.ErrorResponse(c, response.NewNotFound(MsgBookNotFound))
}

// ListBooks 图书列表
// @Summary 图书列表(含作者)
// @Tags 图书
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Success 200 {object} response.Response{data=[]bookModel.Book}
// @Router /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	page := dto.PageFromQuery(c)
	books, total, err := h.bookService.List(c.Request.Context(), page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.PageResponse(c, "Books retrieved successfully.", books, page.Meta(total))
}

// SearchBooks 搜索图书
// @Summary 按标题、作者或 ISBN 搜索
// @Tags 图书
// @Produce json
// @Security BearerAuth
// @Param q query string true "关键字"
// @Param page query int false "页码"
// @Success 200 {object} response.Response{data=[]bookModel.Book}
// @Failure 400 {object} response.ErrorBody
// @Router /books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	page := dto.PageFromQuery(c)
	books, total, err := h.bookService.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.PageResponse(c, "Books retrieved successfully.", books, page.Meta(total))
}

// CreateBook 创建图书
// @Summary 创建图书
// @Tags 图书
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookRequest true "图书信息"
// @Success 201 {object} response.Response{data=bookModel.Book}
// @Failure 422 {object} response.ErrorBody
// @Router /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	b, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, "Book created successfully.", b)
}

// GetBook 图书详情
// @Summary 图书详情
// @Tags 图书
// @Produce json
// @Security BearerAuth
// @Param id path int true "图书ID"
// @Success 200 {object} response.Response{data=bookModel.Book}
// @Failure 404 {object} response.ErrorBody
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	b, err := h.bookService.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "Book retrieved successfully.", b)
}

// UpdateBook 更新图书
// @Summary 更新图书
// @Tags 图书
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "图书ID"
// @Param request body UpdateBookRequest true "图书信息"
// @Success 200 {object} response.Response{data=bookModel.Book}
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	var req UpdateBookRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	b, err := h.bookService.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "Book updated successfully.", b)
}

// DeleteBook 删除图书
// @Summary 删除图书
// @Tags 图书
// @Produce json
// @Security BearerAuth
// @Param id path int true "图书ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorBody
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "Book deleted successfully.", nil)
}
