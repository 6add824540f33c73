package middleware

import (
	"sync"

	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ipRateLimiter 클라이언트 IP별로 token bucket 리미터를 관리합니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter

	rate  rate.Limit
	burst int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.RLock()
	l, ok := i.limiters[ip]
	i.mu.RUnlock()
	if ok {
		return l
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if l, ok = i.limiters[ip]; ok {
		return l
	}

	l = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = l

	return l
}

// RateLimiting 클라이언트 IP별로 초당 요청 수를 제한합니다.
// 한도를 넘으면 Retry-After 헤더와 함께 429를 응답합니다.
func RateLimiting(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("RateLimiting: requestsPerSecond는 양수여야 합니다")
	}
	if burst <= 0 {
		panic("RateLimiting: burst는 양수여야 합니다")
	}

	limiters := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiters.limiter(ip).Allow() {
				applog.WithComponentAndFields(component, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("Rate limit 초과")

				c.Response().Header().Set("Retry-After", "1")

				return ErrTooManyRequests
			}

			return next(c)
		}
	}
}
