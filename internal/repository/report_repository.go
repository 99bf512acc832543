package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// ReportFilter 检举列表过滤条件
type ReportFilter struct {
	Status     model.ReportStatus
	TargetType string
	Page
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id int64) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]*model.Report, int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error
}

type reportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepository{db: db} }

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	var rep model.Report
	if err := r.db.WithContext(ctx).Where("report_id = ?", id).First(&rep).Error; err != nil {
		return nil, translate(err)
	}
	return &rep, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]*model.Report, int64, error) {
	where := r.db.WithContext(ctx).Model(&model.Report{})
	if filter.Status != "" {
		where = where.Where("status = ?", filter.Status)
	}
	if filter.TargetType != "" {
		where = where.Where("target_type = ?", filter.TargetType)
	}

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*model.Report
	err := where.Session(&gorm.Session{}).
		Order("report_id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("report_id = ?", id).
		Update("status", status).Error
}
