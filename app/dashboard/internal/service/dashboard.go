package service

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	pb "github.com/iWorld-y/growth_radar/app/dashboard/api/dashboard/v1"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

type DashboardService struct {
	uc  *usecase.ScreenUseCase
	log *log.Helper
}

func NewDashboardService(uc *usecase.ScreenUseCase, logger log.Logger) *DashboardService {
	return &DashboardService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *DashboardService) Screen(ctx context.Context, req *pb.ScreenRequest) (*pb.ScreenReply, error) {
	res, err := s.uc.Screen(ctx, &domain.Criteria{
		CAGRMin:              req.CagrMin,
		CAGRMax:              req.CagrMax,
		MinGrossMargin:       req.MinGrossMargin,
		MinRevenue:           req.MinRevenue,
		MinOperatingIncome:   req.MinOperatingIncome,
		MinOperatingCashFlow: req.MinOperatingCashFlow,
		Columns:              req.Columns,
		WithInsight:          req.WithInsight,
	})
	if err != nil {
		return nil, toError(err)
	}

	reply := &pb.ScreenReply{
		DatasetId:  res.DatasetID,
		Total:      int32(res.Total),
		Count:      int32(res.Count),
		CagrMin:    res.CAGRMin,
		CagrMax:    res.CAGRMax,
		Steps:      make([]*pb.Step, 0, len(res.Steps)),
		Commentary: make([]*pb.Commentary, 0, len(res.Commentary)),
		Columns:    make([]*pb.Column, 0, len(res.Columns)),
		Rows:       make([]*pb.Row, 0, len(res.Rows)),
		Insight:    res.Insight,
	}
	for _, st := range res.Steps {
		reply.Steps = append(reply.Steps, &pb.Step{
			Field:     string(st.Field),
			Lower:     st.Lower,
			Upper:     st.Upper,
			Remaining: int32(st.Remaining),
		})
	}
	for _, c := range res.Commentary {
		reply.Commentary = append(reply.Commentary, &pb.Commentary{
			Field:    string(c.Field),
			Value:    c.Value,
			Severity: string(c.Severity),
			Message:  c.Message,
		})
	}
	for _, c := range res.Columns {
		reply.Columns = append(reply.Columns, &pb.Column{Key: c.Key, Label: c.Label})
	}
	for _, r := range res.Rows {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = string(t)
		}
		reply.Rows = append(reply.Rows, &pb.Row{Cells: r.Cells, Tags: tags})
	}
	return reply, nil
}

func (s *DashboardService) GetDataset(ctx context.Context, req *pb.GetDatasetRequest) (*pb.DatasetReply, error) {
	sum, err := s.uc.Dataset(ctx)
	if err != nil {
		return nil, toError(err)
	}
	return toDatasetReply(sum), nil
}

func (s *DashboardService) ReloadDataset(ctx context.Context, req *pb.ReloadDatasetRequest) (*pb.DatasetReply, error) {
	sum, err := s.uc.Reload(ctx)
	if err != nil {
		return nil, toError(err)
	}
	return toDatasetReply(sum), nil
}

func (s *DashboardService) ListBands(ctx context.Context, req *pb.ListBandsRequest) (*pb.ListBandsReply, error) {
	bands, err := s.uc.Bands(ctx)
	if err != nil {
		return nil, toError(err)
	}
	reply := &pb.ListBandsReply{Bands: make([]*pb.Band, 0, len(bands))}
	for _, b := range bands {
		band := &pb.Band{Field: string(b.Field), Boundaries: b.Boundaries}
		for _, l := range b.Levels {
			band.Levels = append(band.Levels, &pb.Level{Severity: string(l.Severity), Message: l.Message})
		}
		reply.Bands = append(reply.Bands, band)
	}
	return reply, nil
}

func toDatasetReply(s *domain.DatasetSummary) *pb.DatasetReply {
	reply := &pb.DatasetReply{
		Id:       s.ID,
		Source:   s.Source,
		Schema:   s.Schema,
		LoadedAt: s.LoadedAt.Format(time.RFC3339),
		Rows:     int32(s.Rows),
		Dropped:  int32(s.Dropped),
		Ranges:   make([]*pb.FieldRange, 0, len(s.Ranges)),
	}
	for _, r := range s.Ranges {
		reply.Ranges = append(reply.Ranges, &pb.FieldRange{Field: string(r.Field), Min: r.Min, Max: r.Max})
	}
	return reply
}

// toError 将领域错误转换为带 reason 的 kratos 错误
func toError(err error) error {
	switch {
	case errors.Is(err, screen.ErrInvalidBounds):
		return errors.BadRequest("INVALID_BOUNDS", err.Error())
	case errors.Is(err, screen.ErrUnknownColumn):
		return errors.BadRequest("UNKNOWN_COLUMN", err.Error())
	case errors.Is(err, source.ErrMissingColumn), errors.Is(err, source.ErrNoSchemaMatch):
		return errors.ServiceUnavailable("DATASET_UNAVAILABLE", err.Error())
	case errors.FromError(err).Code != errors.UnknownCode:
		return err
	}
	return errors.InternalServer("SCREEN_FAILED", err.Error())
}
