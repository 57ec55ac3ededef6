package server

import (
	"embed"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/rs/cors"

	v1 "github.com/iWorld-y/growth_radar/app/dashboard/api/dashboard/v1"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/service"
)

//go:embed assets/*
var assets embed.FS

func NewHTTPServer(c *conf.Server, s *service.DashboardService, logger log.Logger) *http.Server {
	middlewares := []middleware.Middleware{
		recovery.Recovery(),
		logging.Server(logger),
	}
	if c.RateLimit != nil && c.RateLimit.Rps > 0 {
		middlewares = append(middlewares, ratelimit.Server(
			ratelimit.WithLimiter(newTokenLimiter(c.RateLimit.Rps, int(c.RateLimit.Burst))),
		))
	}

	origins := []string{"*"}
	if c.Cors != nil && len(c.Cors.AllowedOrigins) > 0 {
		origins = c.Cors.AllowedOrigins
	}
	corsFilter := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	var opts = []http.ServerOption{
		http.Middleware(middlewares...),
		http.Filter(corsFilter.Handler),
	}
	if c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	v1.RegisterDashboardHTTPServer(srv, s)

	// 首页为内嵌的看板页面
	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		content, err := assets.ReadFile("assets/index.html")
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	})

	return srv
}
