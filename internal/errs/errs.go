package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"       // 参数或状态校验失败
	KindNotFound        Kind = "NOT_FOUND_ERROR"        // 资源不存在
	KindAuthorization   Kind = "AUTHORIZATION_ERROR"    // 身份不符
	KindExternalService Kind = "EXTERNAL_SERVICE_ERROR" // 链或存储网关调用失败
	KindInternal        Kind = "INTERNAL_ERROR"         // 其他内部错误
)

// AppError 业务错误
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation 创建校验错误
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NotFound 创建资源不存在错误
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Authorization 创建鉴权错误
func Authorization(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

// ExternalService 创建外部服务错误
func ExternalService(message string, err error) *AppError {
	return &AppError{Kind: KindExternalService, Message: message, Err: err}
}

// Internal 创建内部错误
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// HTTPStatus 错误类别到HTTP状态码的映射
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage 返回面向调用方的错误消息
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
