package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/storefront"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	syncActiveKey   = "woodash:sync:active"
	syncLastPushKey = "woodash:sync:last_push"
)

// SyncService 库存同步协调器
// 只比较和上报偏差；写回店面必须由用户显式触发，绝不自动推送
type SyncService struct {
	bomSvc    *BOMService
	stockAPI  storefront.StockAPI
	auditRepo *repository.AuditRepository
	rdb       *redis.Client
}

func NewSyncService(bomSvc *BOMService, stockAPI storefront.StockAPI, auditRepo *repository.AuditRepository, rdb *redis.Client) *SyncService {
	return &SyncService{
		bomSvc:    bomSvc,
		stockAPI:  stockAPI,
		auditRepo: auditRepo,
		rdb:       rdb,
	}
}

// DriftReport 有效库存与店面库存的对比
// EffectiveStock为nil表示Unbounded，此时无可推送值，恒视为同步
type DriftReport struct {
	Scope          entity.BOMScope `json:"scope"`
	EffectiveStock *int64          `json:"effective_stock"`
	ExternalStock  int64           `json:"external_stock"`
	InSync         bool            `json:"in_sync"`
}

// CheckDrift 只读对比，不产生任何写入
// 店面未配置时返回可重试的SyncError而不是崩溃，Push同样经由此处拦截
func (s *SyncService) CheckDrift(ctx context.Context, scope entity.BOMScope) (*DriftReport, error) {
	if s.stockAPI == nil {
		return nil, &SyncError{Kind: SyncErrorNetwork, Message: "storefront API not configured"}
	}

	resolved, err := s.bomSvc.Resolve(ctx, scope)
	if err != nil {
		return nil, err
	}
	effective := RollupStock(resolved)

	external, err := s.stockAPI.GetStock(ctx, scope.ProductID, scope.VariantID)
	if err != nil {
		return nil, asSyncError(err)
	}

	report := &DriftReport{
		Scope:          scope,
		EffectiveStock: effective,
		ExternalStock:  external,
	}
	// Unbounded时没有要推的值，视为同步
	report.InSync = effective == nil || *effective == external
	return report, nil
}

// PushResult 推送结果
type PushResult struct {
	Scope            entity.BOMScope `json:"scope"`
	NewExternalStock int64           `json:"new_external_stock"`
	Changed          bool            `json:"changed"`
}

// Push 将有效库存写回店面。仅手动触发
// 已同步时是空操作并返回成功，可安全重复按
func (s *SyncService) Push(ctx context.Context, scope entity.BOMScope, actorID string) (*PushResult, error) {
	report, err := s.CheckDrift(ctx, scope)
	if err != nil {
		return nil, err
	}

	if report.InSync {
		return &PushResult{
			Scope:            scope,
			NewExternalStock: report.ExternalStock,
			Changed:          false,
		}, nil
	}

	s.markActive(ctx)
	defer s.clearActive(ctx)

	newStock, err := s.stockAPI.UpdateStock(ctx, scope.ProductID, scope.VariantID, *report.EffectiveStock)
	if err != nil {
		return nil, asSyncError(err)
	}

	s.recordPush(ctx, scope, report.ExternalStock, newStock, actorID)

	return &PushResult{
		Scope:            scope,
		NewExternalStock: newStock,
		Changed:          true,
	}, nil
}

// SyncStatus 同步状态（前端状态栏轮询用）
type SyncStatus struct {
	Active     bool       `json:"active"`
	LastPushAt *time.Time `json:"last_push_at,omitempty"`
}

// Status 读取同步状态
func (s *SyncService) Status(ctx context.Context) *SyncStatus {
	status := &SyncStatus{}
	if s.rdb == nil {
		return status
	}
	if v, err := s.rdb.Get(ctx, syncActiveKey).Result(); err == nil && v == "1" {
		status.Active = true
	}
	if v, err := s.rdb.Get(ctx, syncLastPushKey).Result(); err == nil {
		if ts, parseErr := strconv.ParseInt(v, 10, 64); parseErr == nil {
			t := time.Unix(ts, 0)
			status.LastPushAt = &t
		}
	}
	return status
}

func (s *SyncService) markActive(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	// 推送本身是秒级的单次远程调用，过期只是兜底
	s.rdb.Set(ctx, syncActiveKey, "1", time.Minute)
}

func (s *SyncService) clearActive(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, syncActiveKey)
}

// recordPush 记录最近一次推送：redis时间戳 + 审计
func (s *SyncService) recordPush(ctx context.Context, scope entity.BOMScope, oldStock, newStock int64, actorID string) {
	if s.rdb != nil {
		s.rdb.Set(ctx, syncLastPushKey, strconv.FormatInt(time.Now().Unix(), 10), 0)
	}
	if s.auditRepo != nil {
		_ = s.auditRepo.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String()[:32],
			EntityType: entity.AuditEntityProduct,
			EntityID:   strconv.FormatInt(scope.ProductID, 10),
			Action:     "stock_push",
			Detail: entity.JSONB{
				"scope":     scope.String(),
				"old_stock": oldStock,
				"new_stock": newStock,
			},
			ActorID:   actorID,
			CreatedAt: time.Now(),
		})
	}
}

// asSyncError 将店面客户端错误归类为SyncError
func asSyncError(err error) error {
	var apiErr *storefront.APIError
	if errors.As(err, &apiErr) {
		kind := SyncErrorNetwork
		if apiErr.Kind == storefront.ErrorKindRejected {
			kind = SyncErrorRejected
		}
		return &SyncError{Kind: kind, Message: apiErr.Message}
	}
	// 未分类的错误按网络瞬时错误处理，允许用户重试
	return &SyncError{Kind: SyncErrorNetwork, Message: err.Error()}
}
