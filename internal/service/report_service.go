package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// ReportStatusAll 列表不按状态过滤
const ReportStatusAll = "all"

// ReportInput 前台提交的检举
type ReportInput struct {
	ReporterID int64
	TargetType string
	TargetID   int64
	ReasonCode string
	ReasonText string
}

// ReportPage 检举分页结果
type ReportPage struct {
	Total int64           `json:"total"`
	Items []*model.Report `json:"items"`
}

type ReportService interface {
	Create(ctx context.Context, in ReportInput) (*model.Report, error)
	// List status 为空时只列 pending，"all" 不过滤
	List(ctx context.Context, status, targetType string, page repository.Page) (*ReportPage, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) (*model.Report, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	maxLimit    int
}

func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	maxLimit int,
) ReportService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &reportService{
		reportRepo:  reportRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		maxLimit:    maxLimit,
	}
}

func (s *reportService) Create(ctx context.Context, in ReportInput) (*model.Report, error) {
	reason := strings.TrimSpace(in.ReasonCode)
	if in.ReporterID <= 0 || in.TargetType == "" || in.TargetID <= 0 || reason == "" {
		return nil, newError(ErrMissingInput, "Missing fields")
	}
	if !model.ValidReportTarget(in.TargetType) {
		return nil, newError(ErrMissingInput, "invalid target_type")
	}

	if _, err := s.userRepo.GetByID(ctx, in.ReporterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Reporter not found")
		}
		return nil, storageError("create report", err)
	}
	if err := s.targetExists(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterID: in.ReporterID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		ReasonCode: reason,
		Status:     model.ReportPending,
		CreatedAt:  time.Now().UTC(),
	}
	if text := sanitize(in.ReasonText); text != "" {
		report.ReasonText = &text
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, storageError("create report", err)
	}
	logger.Info("report created",
		zap.Int64("report_id", report.ReportID),
		zap.String("target_type", report.TargetType),
		zap.Int64("target_id", report.TargetID),
	)
	return report, nil
}

func (s *reportService) targetExists(ctx context.Context, targetType string, id int64) error {
	var err error
	switch targetType {
	case model.ReportTargetProduct:
		_, err = s.productRepo.GetByID(ctx, id)
	case model.ReportTargetUser:
		_, err = s.userRepo.GetByID(ctx, id)
	case model.ReportTargetOrder:
		_, err = s.orderRepo.GetByOrderID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "Report target not found")
	}
	if err != nil {
		return storageError("create report", err)
	}
	return nil
}

func (s *reportService) List(ctx context.Context, status, targetType string, page repository.Page) (*ReportPage, error) {
	filter := repository.ReportFilter{TargetType: targetType}
	switch status {
	case "":
		filter.Status = model.ReportPending
	case ReportStatusAll:
	default:
		filter.Status = model.ReportStatus(status)
		if !filter.Status.Valid() {
			return nil, newError(ErrMissingInput, "invalid status")
		}
	}
	if targetType != "" && !model.ValidReportTarget(targetType) {
		return nil, newError(ErrMissingInput, "invalid target_type")
	}
	filter.Limit, filter.Offset = clampPage(page.Limit, page.Offset, s.maxLimit)

	items, total, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list reports", err)
	}
	if items == nil {
		items = []*model.Report{}
	}
	return &ReportPage{Total: total, Items: items}, nil
}

// UpdateStatus 管理员处理检举：可改为 in_review/resolved/rejected，结案后不可再改
func (s *reportService) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) (*model.Report, error) {
	if id <= 0 || status == "" {
		return nil, newError(ErrMissingInput, "Missing id or status")
	}
	if status == model.ReportPending || !status.Valid() {
		return nil, newError(ErrMissingInput, "invalid status")
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Report not found")
	}
	if err != nil {
		return nil, storageError("update report", err)
	}
	if report.Status.IsClosed() {
		return nil, newError(ErrInvalidTransition, "Report is already closed")
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, storageError("update report", err)
	}
	logger.Info("report status changed",
		zap.Int64("report_id", id),
		zap.String("from", string(report.Status)),
		zap.String("to", string(status)),
	)
	updated, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("update report", err)
	}
	return updated, nil
}
