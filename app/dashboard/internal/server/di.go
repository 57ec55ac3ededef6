package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/data"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/service"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/usecase"
)

// ProviderSet 是看板服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewGRPCServer,

	// Data providers
	data.NewData,
	data.NewScreenRepo,

	// UseCase providers
	usecase.NewScreenUseCase,

	// Service providers
	service.NewDashboardService,
)
