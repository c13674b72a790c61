package response

type ResponseCode int

// Status 响应状态
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// PageMeta 分页信息
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPageMeta computes the last page; an empty result still has one page.
func NewPageMeta(page, perPage int, total int64) *PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &PageMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
}

type Response struct {
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// ErrorBody 错误响应, errors 为字段到消息列表的映射
type ErrorBody struct {
	Status  Status              `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type ResponseOptions func(*Response)

func WithMessage(message string) ResponseOptions {
	return func(r *Response) {
		r.Message = message
	}
}

func WithData(data any) ResponseOptions {
	return func(r *Response) {
		r.Data = data
	}
}

func WithMeta(meta *PageMeta) ResponseOptions {
	return func(r *Response) {
		r.Meta = meta
	}
}

func CustomResponse(opts ...ResponseOptions) Response {
	response := Response{Status: StatusSuccess}
	for _, opt := range opts {
		opt(&response)
	}
	return response
}

func SuccessResponse(message string, data any) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err *BusinessError) ErrorBody {
	fields := err.Fields
	if fields == nil {
		fields = map[string][]string{}
	}
	return ErrorBody{
		Status:  StatusError,
		Message: err.Msg,
		Errors:  fields,
	}
}
