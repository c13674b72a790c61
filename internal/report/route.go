package report

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/permission"
)

// RegisterRoutes 报表仅对管理员开放
func RegisterRoutes(r *gin.RouterGroup, service *ReportService) {
	h := &ReportHandler{reportService: service}

	reports := r.Group("/reports")
	reports.Use(middleware.Require(permission.ViewReports))
	{
		reports.GET("/overdue", h.Overdue)
		reports.GET("/summary", h.Summary)
	}
}
