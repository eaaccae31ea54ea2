/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-01-17 23:47:06
 * @Description: 服务入口
 */
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"whoisrecord/config"
	"whoisrecord/middleware"
	"whoisrecord/pkg/logger"
	"whoisrecord/routes"
	"whoisrecord/services"
)

// newRedisClient 连接失败时返回 nil，服务在无缓存模式下运行
func newRedisClient(cfg *config.Config) *redis.Client {
	log := logger.Module("Main")

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     100,              // 连接池大小
		MinIdleConns: 10,               // 最小空闲连接数
		DialTimeout:  5 * time.Second,  // 连接超时
		ReadTimeout:  3 * time.Second,  // 读取超时
		WriteTimeout: 3 * time.Second,  // 写入超时
		PoolTimeout:  4 * time.Second,  // 获取连接超时
		IdleTimeout:  5 * time.Minute,  // 空闲连接超时
		MaxConnAge:   30 * time.Minute, // 连接最大存活时间
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis %s unreachable, running without cache: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}
	log.Infof("redis connected: %s", cfg.RedisAddr)
	return rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger 尚未初始化
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.Options{Env: cfg.Env, File: cfg.LogFile}); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Module("Main")
	log.Infof("启动服务器，版本：%s，环境：%s", cfg.Version, cfg.Env)

	serviceContainer, err := services.NewServiceContainer(cfg, newRedisClient(cfg))
	if err != nil {
		log.Fatalf("initializing services: %v", err)
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.HTTPLogger("/api/health"),
		middleware.ErrorHandler(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.SecurityWithConfig(middleware.DefaultSecurityConfig()),
		middleware.ServiceMiddleware(serviceContainer),
	)

	routes.RegisterAPIRoutes(r, serviceContainer)

	srv := &http.Server{
		Addr:           cfg.Port,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   routes.MaxRouteTimeout(cfg.WhoisTimeout) + 30*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Infof("listening on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	serviceContainer.Shutdown()

	log.Info("服务器已退出")
}
