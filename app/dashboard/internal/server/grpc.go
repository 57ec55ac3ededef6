package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	ggrpc "google.golang.org/grpc"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/conf"
)

// maxRecvMsgSize gRPC 单条消息上限
const maxRecvMsgSize = 4 << 20

// NewGRPCServer 创建 gRPC 服务，kratos 会注册 grpc.health.v1 健康检查
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		grpc.Options(ggrpc.MaxRecvMsgSize(maxRecvMsgSize)),
	}
	if c.Grpc != nil {
		if c.Grpc.Addr != "" {
			opts = append(opts, grpc.Address(c.Grpc.Addr))
		}
		if c.Grpc.Timeout != "" {
			if d, err := time.ParseDuration(c.Grpc.Timeout); err == nil {
				opts = append(opts, grpc.Timeout(d))
			}
		}
	}
	return grpc.NewServer(opts...)
}
