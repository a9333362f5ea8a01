package model

import "time"

// Role 用户角色，注册时只允许 mentor/mentee，admin 由 createadmin 工具创建
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMentor, RoleMentee, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Name     string `gorm:"size:64;not null"`
	Email    string `gorm:"uniqueIndex;size:64;not null"`
	Password string `gorm:"size:255;not null"`
	Role     Role   `gorm:"size:16;not null;default:'mentee';index"`
	// Reputation 是流水表的派生缓存，只允许 ReputationRepository 在事务里改
	Reputation int64  `gorm:"not null;default:0"`
	Bio        string `gorm:"type:text"`
	Location   string `gorm:"size:128"`
	Skills     string `gorm:"type:text"` // 逗号分隔，mentor/mentee 才有
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
