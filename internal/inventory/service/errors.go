package service

import (
	"errors"
	"fmt"
)

// ErrComponentNotFound 组件引用已失效（被添加进BOM后又被删除）
// rollup调用方须将该行降级为"缺失组件"标记，而不是让整次计算失败
var ErrComponentNotFound = errors.New("component not found")

// 校验规则标识
const (
	RuleSelfReference      = "self_reference"
	RuleNestedBOM          = "nested_bom"
	RuleBadQuantity        = "bad_quantity"
	RuleDuplicateComponent = "duplicate_component"
)

// ValidationError BOM保存校验错误，整单拒绝，附带具体违反的规则
type ValidationError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bom validation failed [%s]: %s", e.Rule, e.Message)
}

// 同步错误分类
const (
	SyncErrorNetwork  = "network"
	SyncErrorRejected = "rejected"
)

// SyncError 库存同步错误
// network: 瞬时失败，用户可重试；rejected: 店面拒绝写入，终态
type SyncError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s error: %s", e.Kind, e.Message)
}

// Retryable 该同步错误是否值得用户重试
func (e *SyncError) Retryable() bool {
	return e.Kind == SyncErrorNetwork
}
