package login

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/token"
)

func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, tokens *token.Service) {
	h := &LoginHandler{service: NewLoginService(db, tokens)}
	r.POST("/login", h.Login)
}
