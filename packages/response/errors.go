package response

import "net/http"

// 业务错误码
const (
	// 失败, 未预期的错误
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未登录或令牌无效
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 违反业务规则
	BusinessRule ResponseCode = 6
	// 违反数据完整性约束
	Integrity ResponseCode = 7
)

// HTTPStatus maps a business code onto the status line sent to the client.
func (c ResponseCode) HTTPStatus() int {
	switch c {
	case ParseError, InvalidParameter:
		return http.StatusUnprocessableEntity
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case BusinessRule, Integrity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type BusinessError struct {
	Code   ResponseCode
	Msg    string
	Err    error
	Fields map[string][]string
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

// WithFieldError attaches a message to a request field.
func WithFieldError(field, msg string) ErrorOption {
	return func(be *BusinessError) {
		if be.Fields == nil {
			be.Fields = make(map[string][]string)
		}
		be.Fields[field] = append(be.Fields[field], msg)
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "Unexpected error.",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Shorthands for the common cases.

func NewNotFound(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(NotFound), WithErrorMessage(msg))
}

func NewForbidden(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(Forbidden), WithErrorMessage(msg))
}

func NewBadRequest(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(BusinessRule), WithErrorMessage(msg))
}

// NewFieldError is a validation failure on a single field.
func NewFieldError(field, msg string) *BusinessError {
	return NewBusinessError(
		WithErrorCode(InvalidParameter),
		WithErrorMessage(msg),
		WithFieldError(field, msg),
	)
}
