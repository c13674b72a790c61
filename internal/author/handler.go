package author

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
)

type AuthorHandler struct {
	authorService *AuthorService
}

// ListAuthors 作者列表
// @Summary 作者列表
// @Tags 作者
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Success 200 {object} response.Response{data=[]authorModel.Author}
// @Failure 403 {object} response.ErrorBody
// @Router /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	page := dto.PageFromQuery(c)
	authors, total, err := h.authorService.List(c.Request.Context(), page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.PageResponse(c, "Authors retrieved successfully.", authors, page.Meta(total))
}

// CreateAuthor 创建作者
// @Summary 创建作者
// @Tags 作者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAuthorRequest true "作者信息"
// @Success 201 {object} response.Response{data=authorModel.Author}
// @Failure 422 {object} response.ErrorBody
// @Router /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req CreateAuthorRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	a, err := h.authorService.Create(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, "Author created successfully.", a)
}
