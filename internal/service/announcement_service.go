package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// AnnouncementInput 新建公告；Status 为空时为 draft
type AnnouncementInput struct {
	Title       string
	Content     string
	Status      model.AnnouncementStatus
	VisibleFrom *time.Time
	VisibleTo   *time.Time
	CreatedBy   *int64
}

// AnnouncementUpdate 部分更新，nil 字段不变。
// VisibleFrom/VisibleTo 指向零值时间表示清空该端点。
type AnnouncementUpdate struct {
	Title       *string
	Content     *string
	Status      *model.AnnouncementStatus
	VisibleFrom *time.Time
	VisibleTo   *time.Time
}

// AnnouncementPage 后台公告分页结果
type AnnouncementPage struct {
	Total int64                 `json:"total"`
	Items []*model.Announcement `json:"items"`
}

const defaultPublicAnnouncements = 5

type AnnouncementService interface {
	Create(ctx context.Context, in AnnouncementInput) (*model.Announcement, error)
	Get(ctx context.Context, id int64) (*model.Announcement, error)
	List(ctx context.Context, filter repository.AnnouncementFilter) (*AnnouncementPage, error)
	// Public 前台可见公告
	Public(ctx context.Context, limit int) ([]*model.Announcement, error)
	Update(ctx context.Context, id int64, in AnnouncementUpdate) (*model.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type announcementService struct {
	repo     repository.AnnouncementRepository
	maxLimit int
	now      func() time.Time
}

func NewAnnouncementService(repo repository.AnnouncementRepository, maxLimit int) AnnouncementService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &announcementService{repo: repo, maxLimit: maxLimit, now: time.Now}
}

func (s *announcementService) Create(ctx context.Context, in AnnouncementInput) (*model.Announcement, error) {
	title, content := sanitize(in.Title), sanitize(in.Content)
	if title == "" || content == "" {
		return nil, newError(ErrMissingInput, "title & content required")
	}
	if in.Status == "" {
		in.Status = model.AnnouncementDraft
	}
	if !in.Status.Valid() {
		return nil, newError(ErrMissingInput, "invalid status")
	}
	if err := checkWindow(in.VisibleFrom, in.VisibleTo); err != nil {
		return nil, err
	}

	a := &model.Announcement{
		Title:       title,
		Content:     content,
		Status:      in.Status,
		VisibleFrom: utcPtr(in.VisibleFrom),
		VisibleTo:   utcPtr(in.VisibleTo),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, storageError("create announcement", err)
	}
	logger.Info("announcement created", zap.Int64("announcement_id", a.AnnouncementID), zap.String("status", string(a.Status)))
	return a, nil
}

func (s *announcementService) Get(ctx context.Context, id int64) (*model.Announcement, error) {
	if id <= 0 {
		return nil, newError(ErrMissingInput, "invalid id")
	}
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Announcement not found")
	}
	if err != nil {
		return nil, storageError("get announcement", err)
	}
	return a, nil
}

func (s *announcementService) List(ctx context.Context, filter repository.AnnouncementFilter) (*AnnouncementPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(ErrMissingInput, "invalid status")
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset, s.maxLimit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list announcements", err)
	}
	if items == nil {
		items = []*model.Announcement{}
	}
	return &AnnouncementPage{Total: total, Items: items}, nil
}

func (s *announcementService) Public(ctx context.Context, limit int) ([]*model.Announcement, error) {
	if limit <= 0 {
		limit = defaultPublicAnnouncements
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	items, err := s.repo.ListVisible(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, storageError("public announcements", err)
	}
	if items == nil {
		items = []*model.Announcement{}
	}
	return items, nil
}

func (s *announcementService) Update(ctx context.Context, id int64, in AnnouncementUpdate) (*model.Announcement, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := sanitize(*in.Title)
		if title == "" {
			return nil, newError(ErrMissingInput, "title cannot be empty")
		}
		fields["title"] = title
	}
	if in.Content != nil {
		content := sanitize(*in.Content)
		if content == "" {
			return nil, newError(ErrMissingInput, "content cannot be empty")
		}
		fields["content"] = content
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, newError(ErrMissingInput, "invalid status")
		}
		fields["status"] = *in.Status
	}

	from, to := current.VisibleFrom, current.VisibleTo
	if in.VisibleFrom != nil {
		from = clearable(in.VisibleFrom)
		fields["visible_from"] = nullableTime(from)
	}
	if in.VisibleTo != nil {
		to = clearable(in.VisibleTo)
		fields["visible_to"] = nullableTime(to)
	}
	if len(fields) == 0 {
		return nil, newError(ErrMissingInput, "no fields to update")
	}
	if err := checkWindow(from, to); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, storageError("update announcement", err)
	}
	return s.Get(ctx, id)
}

func (s *announcementService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return newError(ErrMissingInput, "invalid id")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Announcement not found")
		}
		return storageError("delete announcement", err)
	}
	logger.Info("announcement deleted", zap.Int64("announcement_id", id))
	return nil
}

func checkWindow(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return newError(ErrMissingInput, "visible_to must not be before visible_from")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// clearable 零值时间表示清空
func clearable(t *time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return utcPtr(t)
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// clampPage 默认 20 条，上限 maxLimit
func clampPage(limit, offset, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
