package model

import "time"

// 用户角色
const (
	RoleBuyer      = "buyer"
	RoleSeller     = "seller"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User 用户
type User struct {
	UserID       int64     `json:"id" gorm:"column:user_id;primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(100);index"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:varchar(100);not null"`
	Role         string    `json:"role" gorm:"column:role;type:varchar(20);not null;default:buyer"`
	Status       string    `json:"status" gorm:"column:status;type:varchar(20);not null;default:active"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin 后台权限
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// ValidRole 是否为已知角色
func ValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ValidUserStatus 是否为已知账号状态
func ValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusDisabled
}
