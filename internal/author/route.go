package author

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/permission"
)

// RegisterRoutes 作者接口仅对管理员开放
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB) {
	h := &AuthorHandler{authorService: NewAuthorService(db)}

	authors := r.Group("/authors")
	authors.Use(middleware.Require(permission.ManageCatalog))
	{
		authors.GET("", h.ListAuthors)
		authors.POST("", h.CreateAuthor)
	}
}
