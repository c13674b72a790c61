package user

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/packages/response"
)

type UserHandler struct {
	userService *UserService
}

func notFound(c *gin.Context) {
	dto.ErrorResponse(c, response.NewNotFound(MsgUserNotFound))
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Success 200 {object} response.Response{data=[]userModel.User}
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page := dto.PageFromQuery(c)
	users, total, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.PageResponse(c, "Users retrieved successfully.", users, page.Meta(total))
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "用户信息"
// @Success 201 {object} response.Response{data=userModel.User}
// @Failure 403 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	u, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, "User created successfully.", u)
}

// GetUser 用户详情
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=userModel.User}
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	u, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "User retrieved successfully.", u)
}

// UpdateUser 更新用户
// @Summary 更新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body UpdateUserRequest true "用户信息"
// @Success 200 {object} response.Response{data=userModel.User}
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	var req UpdateUserRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	u, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "User updated successfully.", u)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, "User deleted successfully.", nil)
}
