package model

import "time"

// 声望事件的 action 码，写进流水表做审计区分
const (
	ActionQuestionUpvoted   = "question_upvoted"
	ActionQuestionDownvoted = "question_downvoted"
	ActionAnswerUpvoted     = "answer_upvoted"
	ActionAnswerDownvoted   = "answer_downvoted"
	ActionAnswerAccepted    = "answer_accepted"
	ActionAdminAdjustment   = "admin_adjustment"
)

// ReputationLedgerEntry 声望流水，只追加不修改；users.reputation 永远等于该用户流水的 points 之和
type ReputationLedgerEntry struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"not null;index:idx_user_time,priority:1"`
	Points      int64     `gorm:"not null"` // 非零，有正有负
	Action      string    `gorm:"size:32;not null"`
	Description string    `gorm:"size:255"` // 审计备注，管理员调整时为必填的 reason
	CreatedAt   time.Time `gorm:"index:idx_user_time,priority:2,sort:desc"`
}

func (ReputationLedgerEntry) TableName() string { return "reputation_ledger_entries" }

// ReputationOutbox 声望事件外发表，和流水同事务写入，由 relayer 投给 Kafka
type ReputationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null"`
	EntryID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReputationOutbox) TableName() string { return "reputation_outbox" }
