package report

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/packages/response"
)

type ReportHandler struct {
	reportService *ReportService
}

func unexpected(err error, action string) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorMessage("Unexpected error while "+action+"."),
		response.WithError(err),
	)
}

// Overdue 逾期借阅
// @Summary 逾期未还列表
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]OverdueRow}
// @Failure 403 {object} response.ErrorBody
// @Router /reports/overdue [get]
func (h *ReportHandler) Overdue(c *gin.Context) {
	rows, err := h.reportService.Overdue(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, unexpected(err, "building overdue report"))
		return
	}
	dto.SuccessResponse(c, "Overdue borrowings retrieved successfully.", rows)
}

// Summary 流通统计
// @Summary 馆藏与流通统计
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Summary}
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, unexpected(err, "building summary report"))
		return
	}
	dto.SuccessResponse(c, "Summary retrieved successfully.", summary)
}
