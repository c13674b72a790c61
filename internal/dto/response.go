package dto

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	res "terminal-terrace/library/packages/response"
)

// PerPage 列表分页大小
const PerPage = 10

func SuccessResponse(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(message, data))
}

func CreatedResponse(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(message, data))
}

// PageResponse 分页列表, data 为当前页数据
func PageResponse(c *gin.Context, message string, data any, meta *res.PageMeta) {
	c.JSON(http.StatusOK, res.CustomResponse(
		res.WithMessage(message),
		res.WithData(data),
		res.WithMeta(meta),
	))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	status := err.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("message", err.Msg),
			zap.Error(err.Err),
		)
	}
	c.JSON(status, res.ErrorResponse(err))
}

// AbortWithError 写入错误并终止后续处理
func AbortWithError(c *gin.Context, err *res.BusinessError) {
	ErrorResponse(c, err)
	c.Abort()
}

// Page 分页参数
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Meta(total int64) *res.PageMeta {
	return res.NewPageMeta(p.Number, p.Size, total)
}

// PageFromQuery reads ?page=N; anything that is not a positive integer means page 1.
func PageFromQuery(c *gin.Context) Page {
	n, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || n < 1 {
		n = 1
	}
	return Page{Number: n, Size: PerPage}
}

// ParseID 解析路径中的数字 ID
func ParseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
