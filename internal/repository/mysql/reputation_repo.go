package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"gorm.io/gorm"
)

type ReputationRepository struct {
	DB *gorm.DB
}

// ReputationReconcilerRepo 对账用：从流水重算 users.reputation
type ReputationReconcilerRepo struct {
	DB *gorm.DB
}

// RepPair 对账批次里的一条记录
type RepPair struct {
	ID         uint64
	Reputation int64
}

// RecordEvent 原子写入：流水 + 计数 + outbox 同一事务，返回提交后的最新总分。
// 计数用 UPDATE ... SET reputation = reputation + ? 原地自增，该行写锁保持到提交，
// 同一用户的并发事件在存储层串行化，不会丢更新。
func (r *ReputationRepository) RecordEvent(ctx context.Context, userID uint64, points int64, action, description string) (*model.ReputationLedgerEntry, int64, error) {
	var entry *model.ReputationLedgerEntry
	var total int64

	run := func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			e := model.ReputationLedgerEntry{
				UserID:      userID,
				Points:      points,
				Action:      action,
				Description: description,
			}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}

			res := tx.Model(&model.User{}).
				Where("id = ?", userID).
				UpdateColumn("reputation", gorm.Expr("reputation + ?", points))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// 用户不存在，整个事务回滚，流水不落
				return pkg.ErrNotFound
			}

			if err := r.insertOutbox(tx, &e); err != nil {
				return err
			}

			// 同事务内回读，拿到的是含本次增量的提交后值
			var user model.User
			if err := tx.Select("id", "reputation").First(&user, userID).Error; err != nil {
				return err
			}

			entry = &e
			total = user.Reputation
			return nil
		})
	}

	err := run()
	// 瞬时锁冲突只透明重试一次，再失败就向上抛
	if err != nil && isRetryable(err) {
		err = run()
	}
	if err != nil {
		return nil, 0, err
	}
	return entry, total, nil
}

// History 审计展示：一条分页查询 + 一条 count，另带当前总分；最新的在前
func (r *ReputationRepository) History(ctx context.Context, userID uint64, offset, limit int) ([]model.ReputationLedgerEntry, int64, int64, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Select("id", "reputation").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, 0, pkg.ErrNotFound
		}
		return nil, 0, 0, err
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.ReputationLedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, 0, err
	}

	var list []model.ReputationLedgerEntry
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, count, user.Reputation, err
}

// SumPoints 流水求和，缓存永远应该等于它
func (r *ReputationRepository) SumPoints(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	err := r.DB.WithContext(ctx).Model(&model.ReputationLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

// Rebuild 灾备修复：从流水重算缓存，覆盖写
func (r *ReputationRepository) Rebuild(ctx context.Context, userID uint64) (int64, error) {
	sum, err := r.SumPoints(ctx, userID)
	if err != nil {
		return 0, err
	}
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", sum)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, pkg.ErrNotFound
	}
	return sum, nil
}

// 和流水同事务写 outbox，事件提交后由 relayer 投 Kafka
func (r *ReputationRepository) insertOutbox(tx *gorm.DB, e *model.ReputationLedgerEntry) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"user_id":    e.UserID,
		"points":     e.Points,
		"action":     e.Action,
	})
	ob := &model.ReputationOutbox{
		UserID:  e.UserID,
		EntryID: e.ID,
		Payload: string(payload),
		Status:  0,
	}
	return tx.Create(ob).Error
}

// isRetryable 粗判锁竞争类错误（MySQL 死锁/锁等待超时、sqlite busy）
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// ReconcileList 批量捞用户缓存值，游标按 id 递增
func (r *ReputationReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]RepPair, uint64, error) {
	var list []RepPair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "reputation").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealTotal 流水里的真实总分
func (r *ReputationReconcilerRepo) RealTotal(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	err := r.DB.WithContext(ctx).Model(&model.ReputationLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

// ReconcileTotal 修正漂移的缓存
func (r *ReputationReconcilerRepo) ReconcileTotal(ctx context.Context, userID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", real).Error
}
