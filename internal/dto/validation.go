package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	res "terminal-terrace/library/packages/response"
)

var registerOnce sync.Once

// RegisterValidators makes the gin validator report JSON field names and
// adds the custom rules used by request types.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return toSnakeCase(f.Name)
			}
			return name
		})
		// notfuture: 年份不晚于今年
		mustRegister(v, "notfuture", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(time.Now().Year())
		})
		// notblank: 去掉空白后不能为空, 指针字段上 required 不检查空串
		mustRegister(v, "notblank", validators.NotBlank)
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// fieldMessages 覆盖个别字段的默认提示, 键为 field.tag
var fieldMessages = map[string]string{
	"book_id.required": "A book ID is required.",
}

// BindJSON binds the body and renders a 422 envelope on failure.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		ValidationErrorResponse(c, err)
		return false
	}
	return true
}

// ValidationErrorResponse 处理验证错误，返回字段到消息列表的映射
func ValidationErrorResponse(c *gin.Context, err error) {
	ErrorResponse(c, ValidationError(err))
}

// ValidationError converts binding errors into a 422 business error.
func ValidationError(err error) *res.BusinessError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		opts := []res.ErrorOption{res.WithErrorCode(res.InvalidParameter)}
		var messages []string
		for _, fe := range validationErrs {
			field, msg := fieldMessage(fe)
			opts = append(opts, res.WithFieldError(field, msg))
			messages = append(messages, msg)
		}
		opts = append(opts, res.WithErrorMessage(summary(messages)))
		return res.NewBusinessError(opts...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := fmt.Sprintf("The %s field must be of type %s.", humanize(typeErr.Field), typeName(typeErr.Type))
		return res.NewFieldError(typeErr.Field, msg)
	}

	return res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("The request body is not valid JSON."),
		res.WithError(err),
	)
}

func fieldMessage(fe validator.FieldError) (string, string) {
	field := fe.Field()
	name := humanize(field)

	if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
		return field, msg
	}

	switch fe.Tag() {
	case "required", "notblank":
		return field, fmt.Sprintf("The %s field is required.", name)
	case "email":
		return field, fmt.Sprintf("The %s field must be a valid email address.", name)
	case "min":
		if isNumber(fe.Kind()) {
			return field, fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
		}
		return field, fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return field, fmt.Sprintf("The %s field must not be greater than %s.", name, fe.Param())
		}
		return field, fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "oneof":
		return field, fmt.Sprintf("The selected %s is invalid.", name)
	case "eqfield":
		// password_confirmation=eqfield=Password 报在 password 上
		target := toSnakeCase(fe.Param())
		return target, fmt.Sprintf("The %s field confirmation does not match.", humanize(target))
	case "notfuture":
		return field, fmt.Sprintf("The %s field must not be greater than %d.", name, time.Now().Year())
	default:
		return field, fmt.Sprintf("The %s field is invalid.", name)
	}
}

func summary(messages []string) string {
	if len(messages) == 0 {
		return "The given data was invalid."
	}
	first := messages[0]
	switch more := len(messages) - 1; more {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, more)
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch {
	case isNumber(t.Kind()):
		return "integer"
	case t.Kind() == reflect.Bool:
		return "boolean"
	case t.Kind() == reflect.String:
		return "string"
	}
	return t.Kind().String()
}

// humanize 将 library_id 转成 library id
func humanize(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return strings.ReplaceAll(field, "_", " ")
}

// toSnakeCase 将PascalCase转换为snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
