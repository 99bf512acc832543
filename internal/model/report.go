package model

import "time"

// ReportStatus 检举处理状态
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportInReview ReportStatus = "in_review"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportInReview, ReportResolved, ReportRejected:
		return true
	}
	return false
}

// 检举对象类型
const (
	ReportTargetProduct = "product"
	ReportTargetUser    = "user"
	ReportTargetOrder   = "order"
)

func ValidReportTarget(t string) bool {
	switch t {
	case ReportTargetProduct, ReportTargetUser, ReportTargetOrder:
		return true
	}
	return false
}

// Report 用户检举。只记录与流转处理状态，不改动被检举对象
type Report struct {
	ReportID   int64        `json:"id" gorm:"column:report_id;primaryKey;autoIncrement"`
	ReporterID int64        `json:"reporter_id" gorm:"column:reporter_id;index;not null"`
	TargetType string       `json:"target_type" gorm:"column:target_type;type:varchar(16);index:idx_report_target;not null"`
	TargetID   int64        `json:"target_id" gorm:"column:target_id;index:idx_report_target;not null"`
	ReasonCode string       `json:"reason_code" gorm:"column:reason_code;type:varchar(32);not null"`
	ReasonText *string      `json:"reason_text" gorm:"column:reason_text;type:text"`
	Status     ReportStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null;default:pending"`
	CreatedAt  time.Time    `json:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"column:updated_at"`
}

func (Report) TableName() string { return "reports" }

// IsClosed 已结案的检举不再变更
func (s ReportStatus) IsClosed() bool {
	return s == ReportResolved || s == ReportRejected
}
