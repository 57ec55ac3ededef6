package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationDashboardScreen = "/api.dashboard.v1.Dashboard/Screen"
const OperationDashboardGetDataset = "/api.dashboard.v1.Dashboard/GetDataset"
const OperationDashboardReloadDataset = "/api.dashboard.v1.Dashboard/ReloadDataset"
const OperationDashboardListBands = "/api.dashboard.v1.Dashboard/ListBands"

type DashboardHTTPServer interface {
	// Screen 按条件筛选公司
	Screen(context.Context, *ScreenRequest) (*ScreenReply, error)
	// GetDataset 当前数据集概况
	GetDataset(context.Context, *GetDatasetRequest) (*DatasetReply, error)
	// ReloadDataset 丢弃缓存并重新加载数据源
	ReloadDataset(context.Context, *ReloadDatasetRequest) (*DatasetReply, error)
	// ListBands 生效的评级表
	ListBands(context.Context, *ListBandsRequest) (*ListBandsReply, error)
}

func RegisterDashboardHTTPServer(s *http.Server, srv DashboardHTTPServer) {
	r := s.Route("/")
	r.POST("/api/v1/screen", _Dashboard_Screen0_HTTP_Handler(srv))
	r.GET("/api/v1/dataset", _Dashboard_GetDataset0_HTTP_Handler(srv))
	r.POST("/api/v1/dataset/reload", _Dashboard_ReloadDataset0_HTTP_Handler(srv))
	r.GET("/api/v1/bands", _Dashboard_ListBands0_HTTP_Handler(srv))
}

func _Dashboard_Screen0_HTTP_Handler(srv DashboardHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ScreenRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDashboardScreen)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Screen(ctx, req.(*ScreenRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ScreenReply)
		return ctx.Result(200, reply)
	}
}

func _Dashboard_GetDataset0_HTTP_Handler(srv DashboardHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GetDatasetRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDashboardGetDataset)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetDataset(ctx, req.(*GetDatasetRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DatasetReply)
		return ctx.Result(200, reply)
	}
}

func _Dashboard_ReloadDataset0_HTTP_Handler(srv DashboardHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ReloadDatasetRequest
		http.SetOperation(ctx, OperationDashboardReloadDataset)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ReloadDataset(ctx, req.(*ReloadDatasetRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DatasetReply)
		return ctx.Result(200, reply)
	}
}

func _Dashboard_ListBands0_HTTP_Handler(srv DashboardHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListBandsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDashboardListBands)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListBands(ctx, req.(*ListBandsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListBandsReply)
		return ctx.Result(200, reply)
	}
}
