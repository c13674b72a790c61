package logout

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/token"
)

// RegisterRoutes 需挂在已认证的分组上
func RegisterRoutes(r *gin.RouterGroup, tokens *token.Service) {
	handler := &LogoutHandler{tokens: tokens}
	r.POST("/logout", handler.Logout)
}
