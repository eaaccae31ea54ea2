/*
 * @Author: AsisYu
 * @Date: 2025-04-24
 * @Description: 服务容器，用于统一管理所有服务组件
 */
package services

import (
	"fmt"

	"github.com/go-redis/redis/v8"

	"whoisrecord/config"
	"whoisrecord/parsers"
	"whoisrecord/pkg/logger"
	"whoisrecord/providers"
	"whoisrecord/record"
)

// ServiceContainer 服务容器，管理所有服务组件
type ServiceContainer struct {
	Config        *config.Config
	RedisClient   *redis.Client
	WorkerPool    *WorkerPool
	RecordManager *RecordManager
	Limiter       *RateLimiter
}

// NewServiceContainer 创建新的服务容器；redisClient 为 nil 时不启用缓存与分布式限流
func NewServiceContainer(cfg *config.Config, redisClient *redis.Client) (*ServiceContainer, error) {
	log := logger.Module("Container")

	registry, err := parsers.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("installing backends: %w", err)
	}

	catalog := record.DefaultCatalog()
	if cfg.CatalogFile != "" {
		ext, err := config.LoadCatalogExtension(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		if err := ext.Apply(catalog); err != nil {
			return nil, fmt.Errorf("applying catalog file: %w", err)
		}
		log.Infof("catalog extended from %s: %d properties, %d methods",
			cfg.CatalogFile, len(ext.Properties), len(ext.Methods))
	}

	container := &ServiceContainer{
		Config:      cfg,
		RedisClient: redisClient,
	}

	log.Infof("starting worker pool, size: %d", cfg.WorkerPoolSize)
	container.WorkerPool = NewWorkerPool(cfg.WorkerPoolSize)
	container.WorkerPool.Start()

	var cache *PartCache
	if redisClient != nil {
		cache = NewPartCache(redisClient, cfg.CacheTTL)
		container.Limiter = NewRateLimiter(redisClient, "api", cfg.RateLimit, cfg.RatePeriod)
	} else {
		log.Warn("redis not configured, part cache and distributed rate limiting disabled")
	}

	container.RecordManager = NewRecordManager(registry, catalog, cache)
	container.RecordManager.AddProvider(providers.NewPort43Provider(registry, cfg.WhoisTimeout))
	if cfg.WhoisXMLAPIKey != "" {
		container.RecordManager.AddProvider(providers.NewWhoisXMLProvider(cfg.WhoisXMLAPIKey, cfg.WhoisTimeout))
	}

	return container, nil
}

// Shutdown 关闭所有服务
func (sc *ServiceContainer) Shutdown() {
	log := logger.Module("Container")

	if sc.WorkerPool != nil {
		log.Info("stopping worker pool")
		sc.WorkerPool.Stop()
	}

	if sc.RedisClient != nil {
		log.Info("closing redis client")
		if err := sc.RedisClient.Close(); err != nil {
			log.Warnf("closing redis: %v", err)
		}
	}

	log.Info("all services stopped")
}
