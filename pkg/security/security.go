package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// OriginSet 持有CORS白名单，支持运行时整体替换
type OriginSet struct {
	mu  sync.RWMutex
	set map[string]bool
}

func NewOriginSet(origins []string) *OriginSet {
	s := &OriginSet{}
	s.Replace(origins)
	return s
}

func (s *OriginSet) Replace(origins []string) {
	set := make(map[string]bool, len(origins))
	for _, o := range origins {
		set[o] = true
	}
	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
}

func (s *OriginSet) Contains(origin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set[origin]
}

// CORS 中间件 仅允许白名单中的Origin，支持Credentials
func CORS(origins *OriginSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && origins.Contains(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
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
		// XSS保护
		c.Header("X-XSS-Protection", "1; mode=block")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// LimitPolicy 持有当前限流参数。Update递增代号，已缓存的限流器在下次请求时
// 按新参数重建。
type LimitPolicy struct {
	mu     sync.RWMutex
	r      rate.Limit
	burst  int
	window time.Duration
	gen    uint64
}

func NewLimitPolicy(maxRequests int, window time.Duration) *LimitPolicy {
	p := &LimitPolicy{}
	p.Update(maxRequests, window)
	return p
}

func (p *LimitPolicy) Update(maxRequests int, window time.Duration) {
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	if window <= 0 {
		window = time.Minute
	}
	p.mu.Lock()
	p.r = rate.Every(window / time.Duration(maxRequests))
	p.burst = maxRequests
	p.window = window
	p.gen++
	p.mu.Unlock()
}

func (p *LimitPolicy) snapshot() (rate.Limit, int, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.r, p.burst, p.gen
}

func (p *LimitPolicy) expiry() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	expiry := p.window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	return expiry
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	gen      uint64
}

// RateLimiter 限流中间件 按IP限流，自动清理过期条目
func RateLimiter(policy *LimitPolicy) gin.HandlerFunc {
	store := make(map[string]*visitor)
	var mu sync.Mutex

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			expiry := policy.expiry()
			mu.Lock()
			for ip, v := range store {
				if time.Since(v.lastSeen) > expiry {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := c.ClientIP()
		r, burst, gen := policy.snapshot()

		mu.Lock()
		v, exists := store[key]
		if !exists || v.gen != gen {
			v = &visitor{
				limiter: rate.NewLimiter(r, burst),
				gen:     gen,
			}
			store[key] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
