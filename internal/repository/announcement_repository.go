package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// AnnouncementFilter 后台公告列表过滤条件
type AnnouncementFilter struct {
	Status model.AnnouncementStatus
	Query  string
	Page
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id int64) (*model.Announcement, error)
	List(ctx context.Context, filter AnnouncementFilter) ([]*model.Announcement, int64, error)
	// ListVisible 已发布且 at 时刻在展示窗口内的公告
	ListVisible(ctx context.Context, at time.Time, limit int) ([]*model.Announcement, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type announcementRepository struct{ db *gorm.DB }

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepository) GetByID(ctx context.Context, id int64) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.db.WithContext(ctx).Where("announcement_id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter) ([]*model.Announcement, int64, error) {
	where := r.db.WithContext(ctx).Model(&model.Announcement{})
	if filter.Status != "" {
		where = where.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		where = where.Where("(title LIKE ? OR content LIKE ?)", like, like)
	}

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*model.Announcement
	err := where.Session(&gorm.Session{}).
		Order("announcement_id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListVisible 无起始时间的排最前，其余按起始时间倒序
func (r *announcementRepository) ListVisible(ctx context.Context, at time.Time, limit int) ([]*model.Announcement, error) {
	var rows []*model.Announcement
	err := r.db.WithContext(ctx).
		Where("status = ?", model.AnnouncementPublished).
		Where("(visible_from IS NULL OR visible_from <= ?)", at).
		Where("(visible_to IS NULL OR visible_to >= ?)", at).
		Order("CASE WHEN visible_from IS NULL THEN 0 ELSE 1 END, visible_from DESC, announcement_id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *announcementRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("announcement_id = ?", id).
		Updates(fields).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("announcement_id = ?", id).Delete(&model.Announcement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
