package storefront

import "fmt"

// ErrorKind 店面API错误分类
type ErrorKind string

const (
	// ErrorKindNetwork 传输失败或店面5xx，用户可重试
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindRejected 店面拒绝写入（记录不存在等），终态
	ErrorKindRejected ErrorKind = "rejected"
)

// APIError 店面API调用错误
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("storefront %s error [%d]: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storefront %s error: %s", e.Kind, e.Message)
}
