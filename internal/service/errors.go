package service

import (
	"errors"
)

// 错误分类，handler 按分类映射 HTTP 状态码
var (
	ErrMissingInput       = errors.New("missing input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorage            = errors.New("storage failure")
)

// Error 带分类与对外文案的业务错误；Err 为内部原因，不对外暴露
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// storageError 存储层失败，对外文案为 "<op> failed"
func storageError(op string, err error) error {
	return &Error{Kind: ErrStorage, Msg: op + " failed", Err: err}
}

// asServiceError 已分类的错误原样返回，其余归为存储失败
func asServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return storageError(op, err)
}

// Message 对外文案
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Msg
	}
	return "internal server error"
}
