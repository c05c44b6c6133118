package service

import (
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/config"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/storefront"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	Resolver *ResolverService
	BOM      *BOMService
	Sync     *SyncService
	Product  *ProductService
	Supplier *SupplierService
	Audit    *AuditService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	var stockAPI storefront.StockAPI
	if cfg.Storefront.BaseURL != "" {
		stockAPI = storefront.NewClient(
			cfg.Storefront.BaseURL,
			cfg.Storefront.ConsumerKey,
			cfg.Storefront.ConsumerSecret,
			cfg.Storefront.Timeout,
		)
	}

	resolver := NewResolverService(repos.Product, repos.Supplier)
	bomSvc := NewBOMService(repos.BOM, repos.Audit, resolver)

	return &Services{
		Resolver: resolver,
		BOM:      bomSvc,
		Sync:     NewSyncService(bomSvc, stockAPI, repos.Audit, rdb),
		Product:  NewProductService(repos.Product, repos.BOM, repos.Audit),
		Supplier: NewSupplierService(repos.Supplier),
		Audit:    NewAuditService(repos.Audit),
	}
}
