package book

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/permission"
)

// RegisterRoutes r 必须已经挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB) {
	h := &BookHandler{bookService: NewBookService(db)}

	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/search", h.SearchBooks)
		books.GET("/:id", h.GetBook)

		admin := books.Group("")
		admin.Use(middleware.Require(permission.ManageCatalog))
		{
			admin.POST("", h.CreateBook)
			admin.PUT("/:id", h.UpdateBook)
			admin.DELETE("/:id", h.DeleteBook)
		}
	}
}
