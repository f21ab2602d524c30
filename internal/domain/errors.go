package domain

import (
	"errors"
	"fmt"
)

// 错误分类：transport 层统一映射到 HTTP 状态码，客户端再映射回来
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state: record is not pending")
)

// ValidationError 必填字段缺失 / 非法取值
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation: " + e.Field + ": " + e.Reason
	}
	return "validation: " + e.Reason
}

// UploadError 附件上传失败，Index 指向提交序列中出错的文件
type UploadError struct {
	Index int
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q (index %d): %v", e.Name, e.Index, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RenderError PDF 生成失败
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render pdf: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// TransportError 网络 / 未预期的远端错误
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: status %d: %v", e.Status, e.Err)
	}
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
