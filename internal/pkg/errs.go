package pkg

import "errors"

// 业务错误分类，handler 层用 errors.Is 映射到 HTTP 状态码
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)
