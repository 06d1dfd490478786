package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 中间件 仅允许白名单中的Origin，支持Credentials
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (allowAll || originSet[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按 IP 的令牌桶限流，参数可在运行时更新
type RateLimiter struct {
	mu          sync.Mutex
	store       map[string]*visitor
	limit       rate.Limit
	burst       int
	window      time.Duration
	stopCleanup chan struct{}
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		store:       make(map[string]*visitor),
		stopCleanup: make(chan struct{}),
	}
	l.setLocked(maxRequests, window)
	go l.cleanup()
	return l
}

func (l *RateLimiter) setLocked(maxRequests int, window time.Duration) {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	l.limit = rate.Every(window / time.Duration(maxRequests))
	l.burst = maxRequests
	l.window = window
}

// Update 修改限额，已有访客的令牌桶同步调整
func (l *RateLimiter) Update(maxRequests int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setLocked(maxRequests, window)
	for _, v := range l.store {
		v.limiter.SetLimit(l.limit)
		v.limiter.SetBurst(l.burst)
	}
}

func (l *RateLimiter) Stop() {
	close(l.stopCleanup)
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCleanup:
			return
		case <-ticker.C:
			l.mu.Lock()
			expiry := l.window * 3
			if expiry < time.Minute {
				expiry = time.Minute
			}
			for ip, v := range l.store {
				if time.Since(v.lastSeen) > expiry {
					delete(l.store, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	v, exists := l.store[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.store[key] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Middleware 超出限额时返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}
