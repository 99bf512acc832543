package model

import "time"

// AnnouncementStatus 公告状态
type AnnouncementStatus string

const (
	AnnouncementDraft     AnnouncementStatus = "draft"
	AnnouncementPublished AnnouncementStatus = "published"
	AnnouncementArchived  AnnouncementStatus = "archived"
)

func (s AnnouncementStatus) Valid() bool {
	switch s {
	case AnnouncementDraft, AnnouncementPublished, AnnouncementArchived:
		return true
	}
	return false
}

// Announcement 站内公告；visible_from/visible_to 为空表示不限
type Announcement struct {
	AnnouncementID int64              `json:"id" gorm:"column:announcement_id;primaryKey;autoIncrement"`
	Title          string             `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Content        string             `json:"content" gorm:"column:content;type:text;not null"`
	Status         AnnouncementStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null;default:draft"`
	VisibleFrom    *time.Time         `json:"visible_from" gorm:"column:visible_from"`
	VisibleTo      *time.Time         `json:"visible_to" gorm:"column:visible_to"`
	CreatedBy      *int64             `json:"created_by" gorm:"column:created_by"`
	CreatedAt      time.Time          `json:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt      time.Time          `json:"updated_at" gorm:"column:updated_at"`
}

func (Announcement) TableName() string { return "announcements" }

// VisibleAt 已发布且 at 落在展示窗口内
func (a *Announcement) VisibleAt(at time.Time) bool {
	if a.Status != AnnouncementPublished {
		return false
	}
	if a.VisibleFrom != nil && a.VisibleFrom.After(at) {
		return false
	}
	if a.VisibleTo != nil && a.VisibleTo.Before(at) {
		return false
	}
	return true
}
