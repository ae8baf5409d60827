package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError はバリデーション失敗フィールドの詳細です。
// Pathは "body.title" や "query.sortBy" のようにネームスペース付きで返します。
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrorResponse はバリデーションエラー専用のエンベロープです。
type ValidationErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// RegisterTagNameFunc はginのバリデーターにjsonタグ名を使わせます。
// これによりエラーのpathがGoのフィールド名ではなくAPI上のフィールド名になります。
// ルーター構築時に一度だけ呼び出してください。
func RegisterTagNameFunc() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// NewValidationError はバインディングエラーを構造化されたレスポンスに変換します。
// namespaceは検証対象に応じて "body" または "query" を指定します。
// validator.ValidationErrors以外（JSON構文エラー等）は単一の汎用エントリにまとめます。
func NewValidationError(namespace string, err error) ValidationErrorResponse {
	resp := ValidationErrorResponse{Message: "Validation error"}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		resp.Errors = []FieldError{{Path: namespace, Message: "malformed request"}}
		return resp
	}

	for _, fe := range verrs {
		resp.Errors = append(resp.Errors, FieldError{
			Path:    namespace + "." + fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return resp
}

// fieldMessage はvalidatorタグごとに人間が読めるメッセージを組み立てます。
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "url":
		return "Must be a valid URL"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}
