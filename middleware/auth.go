/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-03-31 04:10:00
 * @Description: 认证中间件
 */

package middleware

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"whoisrecord/pkg/logger"
	"whoisrecord/utils"
)

const (
	TokenExpiration = 30 * time.Second
	// 每个IP每分钟最多签发的token数
	tokensPerMinute = 30
	tokenIssuer     = "whoisrecord"
)

type Claims struct {
	jwt.StandardClaims
	Nonce string `json:"nonce"`
	IP    string `json:"ip"`
}

// NonceStore 记录已使用的nonce与签发计数
type NonceStore interface {
	// Use 首次使用返回true
	Use(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
	// Incr 返回窗口内的计数
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisNonceStore struct {
	rdb *redis.Client
}

func (s redisNonceStore) Use(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, "nonce:"+nonce, 1, ttl).Result()
}

func (s redisNonceStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// memoryNonceStore 未配置redis时的单机实现
type memoryNonceStore struct {
	mu       sync.Mutex
	used     map[string]time.Time
	counters map[string]*windowCounter
}

type windowCounter struct {
	count int64
	reset time.Time
}

func newMemoryNonceStore() *memoryNonceStore {
	return &memoryNonceStore{
		used:     make(map[string]time.Time),
		counters: make(map[string]*windowCounter),
	}
}

func (s *memoryNonceStore) Use(_ context.Context, nonce string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, exp := range s.used {
		if now.After(exp) {
			delete(s.used, k)
		}
	}
	if _, ok := s.used[nonce]; ok {
		return false, nil
	}
	s.used[nonce] = now.Add(ttl)
	return true, nil
}

func (s *memoryNonceStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || now.After(c.reset) {
		c = &windowCounter{reset: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// Auth 一次性JWT令牌：短有效期、绑定签发IP、nonce只能使用一次
type Auth struct {
	secret []byte
	store  NonceStore
	now    func() time.Time
}

// NewAuth rdb 为 nil 时使用内存存储
func NewAuth(secret string, rdb *redis.Client) *Auth {
	var store NonceStore = newMemoryNonceStore()
	if rdb != nil {
		store = redisNonceStore{rdb: rdb}
	}
	return &Auth{secret: []byte(secret), store: store, now: time.Now}
}

// normalizeIP 规范化IP地址，处理IPv4和IPv6映射
// 用于JWT IP绑定验证，确保IP比较的准确性
func normalizeIP(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed := net.ParseIP(trimmed)
	if parsed == nil {
		return trimmed
	}

	if v4 := parsed.To4(); v4 != nil {
		return v4.String()
	}
	return parsed.String()
}

// Required 校验 Authorization: Bearer <token>
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithRequest(c, "Auth")

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			log.Info("missing authorization header")
			utils.ErrorResponse(c, 401, "MISSING_TOKEN", "Missing authorization header")
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			utils.ErrorResponse(c, 401, "INVALID_TOKEN", "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			utils.ErrorResponse(c, 401, "INVALID_TOKEN", "Empty token")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			log.Infof("token validation failed: %v", err)
			utils.ErrorResponse(c, 401, "INVALID_TOKEN", "Invalid token")
			c.Abort()
			return
		}

		requestIP := normalizeIP(c.ClientIP())
		tokenIP := normalizeIP(claims.IP)
		if requestIP == "" || tokenIP == "" || requestIP != tokenIP {
			log.Warnf("token ip mismatch: token_ip=%s nonce=%s", claims.IP, claims.Nonce)
			utils.ErrorResponse(c, 401, "IP_BINDING_FAILED", "Token IP mismatch")
			c.Abort()
			return
		}

		first, err := a.store.Use(c.Request.Context(), claims.Nonce, TokenExpiration)
		if err != nil {
			log.Errorf("nonce store: %v", err)
			utils.ErrorResponse(c, 503, "AUTH_UNAVAILABLE", "Token verification unavailable")
			c.Abort()
			return
		}
		if !first {
			utils.ErrorResponse(c, 401, "TOKEN_REUSED", "Token already used")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GenerateToken 签发临时Token的处理函数
func (a *Auth) GenerateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		count, err := a.store.Incr(c.Request.Context(), utils.RateLimitKey("token", clientIP), time.Minute)
		if err != nil {
			logger.WithRequest(c, "Auth").Warnf("token counter: %v", err)
		}
		if count > tokensPerMinute {
			utils.ErrorResponse(c, 429, "TOO_MANY_REQUESTS", "请求过于频繁")
			return
		}

		now := a.now()
		claims := Claims{
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: now.Add(TokenExpiration).Unix(),
				IssuedAt:  now.Unix(),
				Issuer:    tokenIssuer,
			},
			Nonce: uuid.NewString(),
			IP:    clientIP,
		}

		signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
		if err != nil {
			utils.ErrorResponse(c, 500, "TOKEN_GENERATION_FAILED", "Failed to generate token")
			return
		}

		utils.SuccessResponse(c, gin.H{
			"token":     signedToken,
			"expiresIn": int(TokenExpiration.Seconds()),
		}, nil)
	}
}
