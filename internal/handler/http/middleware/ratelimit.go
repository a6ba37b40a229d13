package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiterTTL evicts limiters of employees that stopped clocking.
const idleLimiterTTL = 10 * time.Minute

// EmployeeRateLimiter stores a token bucket per employee.
type EmployeeRateLimiter struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

// NewEmployeeRateLimiter creates a new EmployeeRateLimiter.
func NewEmployeeRateLimiter(r rate.Limit, b int) *EmployeeRateLimiter {
	return &EmployeeRateLimiter{
		limiters: cache.New(idleLimiterTTL, 2*idleLimiterTTL),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the limiter for an employee, creating it on first use.
func (l *EmployeeRateLimiter) GetLimiter(employeeID string) *rate.Limiter {
	if v, ok := l.limiters.Get(employeeID); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(employeeID, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.limiters.Add(employeeID, limiter, cache.DefaultExpiration); err != nil {
		// Lost the race; use the limiter stored by the other request.
		if v, ok := l.limiters.Get(employeeID); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimitByEmployee throttles requests per authenticated employee. It must
// run after the JWT verifier.
func RateLimitByEmployee(limiter *EmployeeRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := jwt.PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !limiter.GetLimiter(principal.EmployeeID).Allow() {
				slog.Warn("Clock action rate limited", "employee_id", principal.EmployeeID)
				response.TooManyRequests(w, "Too many clock actions, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
