package model

import "time"

type Question struct {
	ID        uint64    `gorm:"primaryKey"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"type:text"`
	Status    int       `gorm:"not null;default:0"` // 0=normal 1=deleted
	CreatedAt time.Time `gorm:"index:idx_author_time"`
	UpdatedAt time.Time
}

type Answer struct {
	ID         uint64 `gorm:"primaryKey"`
	QuestionID uint64 `gorm:"not null;index"`
	AuthorID   uint64 `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	Accepted   bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// 投票目标类型
const (
	VoteTargetQuestion = "question"
	VoteTargetAnswer   = "answer"
)

// Vote 一人一票，(user_id, target_type, target_id) 唯一；value 只能是 ±1
type Vote struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;uniqueIndex:uk_user_target"`
	TargetType string `gorm:"size:16;not null;uniqueIndex:uk_user_target"`
	TargetID   uint64 `gorm:"not null;uniqueIndex:uk_user_target"`
	Value      int    `gorm:"not null"`
	CreatedAt  time.Time
}
