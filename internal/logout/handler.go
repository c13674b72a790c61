package logout

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/token"
	"terminal-terrace/library/packages/response"
)

type LogoutHandler struct {
	tokens *token.Service
}

// Logout 退出登录
// @Summary 退出登录
// @Description 撤销本次请求使用的令牌, 其他设备上的令牌不受影响
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorBody
// @Router /logout [post]
func (h *LogoutHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage(middleware.MsgUnauthenticated),
		))
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorMessage("Unexpected error while logging out."),
			response.WithError(err),
		))
		return
	}

	dto.SuccessResponse(c, "Logged out successfully.", []any{})
}
