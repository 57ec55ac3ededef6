package server

import (
	aegisrl "github.com/go-kratos/aegis/ratelimit"
	"golang.org/x/time/rate"
)

// tokenLimiter 基于令牌桶的固定速率限流，实现 aegis 的 Limiter 接口
type tokenLimiter struct {
	limiter *rate.Limiter
}

func newTokenLimiter(rps float64, burst int) *tokenLimiter {
	if burst < 1 {
		burst = 1
	}
	return &tokenLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *tokenLimiter) Allow() (aegisrl.DoneFunc, error) {
	if !l.limiter.Allow() {
		return nil, aegisrl.ErrLimitExceed
	}
	return func(aegisrl.DoneInfo) {}, nil
}
