package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	reporterrors "github.com/Santatra-A/leave-management/internal/report/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GenerateReportRequest) (ReportResult, error)
}

type generator interface {
	Generate(ctx context.Context, req GenerateReportRequest) (json.RawMessage, error)
}

type service struct {
	client generator
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(client *Client, logger ...*zap.Logger) Service {
	return newService(client, logger...)
}

func newService(client generator, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		client: client,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateReportRequest) (ReportResult, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return ReportResult{}, reporterrors.ErrInvalidReportPeriod
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return ReportResult{}, reporterrors.ErrInvalidReportPeriod
	}
	if end.Before(start) {
		return ReportResult{}, reporterrors.ErrInvalidReportPeriod
	}

	// Identical in-flight requests share one upstream call.
	key := fmt.Sprintf("%s|%s|%s", req.AppName, req.StartDate, req.EndDate)
	raw, err, shared := s.sf.Do(key, func() (any, error) {
		return s.client.Generate(ctx, req)
	})
	if err != nil {
		s.logger.Error("generate report failed",
			zap.String("app_name", req.AppName),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err),
		)
		return ReportResult{}, err
	}

	s.logger.Info("report generated",
		zap.String("app_name", req.AppName),
		zap.Bool("deduplicated", shared),
	)

	return ReportResult{Report: raw.(json.RawMessage)}, nil
}
