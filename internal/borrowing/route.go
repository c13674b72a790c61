package borrowing

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/permission"
)

// RegisterRoutes 读者本人或管理员可访问, r 必须已经挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, auth *middleware.Auth, service *BorrowingService) {
	h := &BorrowingHandler{borrowingService: service}

	users := r.Group("/users/:id")
	{
		users.POST("/borrow", auth.SelfOr(permission.ActForAnyUser, MsgNotAuthorized), h.Borrow)
		users.POST("/return", auth.SelfOr(permission.ActForAnyUser, MsgNotAuthorized), h.Return)
		users.GET("/borrowed", auth.SelfOr(permission.ViewAnyBorrowings, MsgViewForbidden), h.Borrowed)
	}
}
