package model

import "time"

// Badge 管理员维护的徽章目录；停用只影响后续授予，不收回已有的
type Badge struct {
	ID                  uint64 `gorm:"primaryKey"`
	Name                string `gorm:"uniqueIndex;size:64;not null"`
	Description         string `gorm:"type:text"`
	ReputationThreshold int64  `gorm:"not null;default:0;index"`
	ImageURL            string `gorm:"size:255"`
	IsActive            bool   `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// AwardedCount 派生字段，查询时 COUNT 出来，不落库
	AwardedCount int64 `gorm:"-" json:"awardedCount"`
}

// BadgeAward 一次性授予记录，(user_id, badge_id) 唯一，写入后不再变更
type BadgeAward struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_badge"`
	BadgeID   uint64    `gorm:"not null;index;uniqueIndex:uk_user_badge"`
	AwardedAt time.Time `gorm:"autoCreateTime"`
}

func (BadgeAward) TableName() string { return "badge_awards" }
