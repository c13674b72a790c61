package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/permission"
	"terminal-terrace/library/internal/token"
)

// RegisterRoutes r 必须已经挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, tokens *token.Service) {
	h := &UserHandler{userService: NewUserService(db, tokens)}

	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)

		admin := users.Group("")
		admin.Use(middleware.Require(permission.ManageUsers))
		{
			admin.POST("", h.CreateUser)
			admin.PUT("/:id", h.UpdateUser)
			admin.DELETE("/:id", h.DeleteUser)
		}
	}
}
