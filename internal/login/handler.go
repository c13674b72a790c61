package login

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
)

type LoginHandler struct {
	service *LoginService
}

// Login 邮箱密码登录
// @Summary 登录
// @Description 校验邮箱和密码, 返回用户信息和 Bearer 令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 422 {object} response.ErrorBody
// @Router /login [post]
func (h *LoginHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, "Login successful.", result)
}
