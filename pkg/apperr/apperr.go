// Package apperr 定义业务错误分类，HTTP 层统一把它翻译成错误响应。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindValidation
	KindDuplicate
	KindRateLimited
)

// 错误码（对外稳定）
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_FAILED"
	CodeDuplicate     = "DUPLICATE_RESOURCE"
	CodeRateLimited   = "TOO_MANY_REQUESTS"
	CodeInternalError = "INTERNAL_SERVER_ERROR"
)

// Error 业务错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error

	origin *Error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 派生出来的错误（Wrap/WithDetails）仍然等于原始哨兵错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.origin != nil && e.origin == t)
}

// Status 返回对应的 HTTP 状态码
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDuplicate:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) derive() *Error {
	cp := *e
	if e.origin == nil {
		cp.origin = e
	}
	if e.Details != nil {
		cp.Details = make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			cp.Details[k] = v
		}
	}
	return &cp
}

// Wrap 附带底层错误，返回新实例
func (e *Error) Wrap(err error) *Error {
	cp := e.derive()
	cp.Err = err
	return cp
}

// WithDetails 附带详情，返回新实例
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	cp := e.derive()
	if cp.Details == nil {
		cp.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		cp.Details[k] = v
	}
	return cp
}

// WithDetail 附带单个详情字段
func (e *Error) WithDetail(key string, value interface{}) *Error {
	return e.WithDetails(map[string]interface{}{key: value})
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Unauthorized(message string) *Error {
	return newError(KindAuthentication, CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(KindAuthorization, CodeForbidden, message)
}

func NotFound(message string) *Error {
	return newError(KindNotFound, CodeNotFound, message)
}

func Validation(message string) *Error {
	return newError(KindValidation, CodeValidation, message)
}

func Duplicate(message string) *Error {
	return newError(KindDuplicate, CodeDuplicate, message)
}

func RateLimited(message string) *Error {
	return newError(KindRateLimited, CodeRateLimited, message)
}

// As 从错误链中取出 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind 判断错误链中是否包含指定类别的业务错误
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
