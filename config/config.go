/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-05 09:30:00
 * @Description: 运行配置 - 从 .env 与环境变量读取
 */
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"whoisrecord/pkg/logger"
)

// Config 服务运行参数
type Config struct {
	Env     string
	Version string
	Port    string

	LogFile string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// CacheTTL 原始响应缓存的默认有效期
	CacheTTL time.Duration

	JWTSecret       string
	DisableSecurity bool
	CORSOrigins     []string

	RateLimit  int
	RatePeriod time.Duration

	WhoisTimeout   time.Duration
	WhoisXMLAPIKey string
	// CatalogFile 可选的YAML文件，启动时向目录追加属性/方法名
	CatalogFile string

	WorkerPoolSize int
}

// Load 读取 .env（不存在时忽略）并解析环境变量
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		Env:            logger.DeriveEnvironment(),
		Version:        getEnv("APP_VERSION", "dev"),
		Port:           normalizePort(getEnv("PORT", "8080")),
		LogFile:        os.Getenv("LOG_FILE"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		WhoisXMLAPIKey: strings.TrimSpace(os.Getenv("WHOISXML_API_KEY")),
		CatalogFile:    os.Getenv("CATALOG_FILE"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 60); err != nil {
		return nil, err
	}
	if cfg.WorkerPoolSize, err = getInt("WORKER_POOL_SIZE", 8); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RatePeriod, err = getDuration("RATE_PERIOD", time.Minute); err != nil {
		return nil, err
	}
	if cfg.WhoisTimeout, err = getDuration("WHOIS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	cfg.DisableSecurity = os.Getenv("DISABLE_API_SECURITY") == "true"
	if !cfg.DisableSecurity && cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required unless DISABLE_API_SECURITY=true")
	}

	cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// normalizePort 确保端口格式正确（带冒号前缀）
func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func splitList(s string) []string {
	items := strings.Split(s, ",")
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
