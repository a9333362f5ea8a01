package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/redis"

	"gorm.io/gorm"
)

type ReputationService struct {
	repo     *mysql.ReputationRepository
	userRepo *mysql.UserRepository
	badgeSvc *BadgeService
	board    *redis.LeaderboardRepository // 可为 nil（纯 DB 场景/测试）
	lock     *redis.DistLock
}

func NewReputationService(db *gorm.DB, board *redis.LeaderboardRepository) *ReputationService {
	return &ReputationService{
		repo:     &mysql.ReputationRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		badgeSvc: NewBadgeService(db),
		board:    board,
		lock:     &redis.DistLock{},
	}
}

// RecordEvent 声望变更唯一入口：校验 -> 原子落库 -> 提交后触发徽章评估。
// points 为 0 的事件不携带信息，直接拒绝，不落流水。
func (s *ReputationService) RecordEvent(ctx context.Context, userID uint64, points int64, action, description string) (int64, error) {
	if points == 0 {
		return 0, fmt.Errorf("%w: points must be non-zero", pkg.ErrInvalidArgument)
	}
	if action == "" {
		return 0, fmt.Errorf("%w: action required", pkg.ErrInvalidArgument)
	}

	_, total, err := s.repo.RecordEvent(ctx, userID, points, action, description)
	if err != nil {
		return 0, err
	}

	// 榜单缓存增量更新，失败不影响主流程
	if s.board != nil {
		if err := s.board.BumpScore(ctx, userID, points); err != nil {
			log.Printf("leaderboard bump err: user=%d %v", userID, err)
		}
	}

	// 降分不会新达标，但重复评估也无害；这里只在加分时触发
	if points > 0 {
		s.badgeSvc.EvaluateAt(ctx, userID, total)
	}
	return total, nil
}

// ApplyManualAdjustment 管理员手工调整。刻意不幂等：每次调用都是一条独立的行政决定
func (s *ReputationService) ApplyManualAdjustment(ctx context.Context, targetUserID uint64, points int64, reason string, actingAdminID uint64) (int64, error) {
	acting, err := s.userRepo.FindByID(actingAdminID)
	if err != nil {
		return 0, fmt.Errorf("%w: acting user not found", pkg.ErrForbidden)
	}
	if acting.Role != model.RoleAdmin {
		return 0, fmt.Errorf("%w: admin role required", pkg.ErrForbidden)
	}
	if strings.TrimSpace(reason) == "" {
		return 0, fmt.Errorf("%w: reason required", pkg.ErrInvalidArgument)
	}
	return s.RecordEvent(ctx, targetUserID, points, model.ActionAdminAdjustment, reason)
}

// History 审计流水，最新在前
func (s *ReputationService) History(ctx context.Context, userID uint64, page, size int) ([]model.ReputationLedgerEntry, int64, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.repo.History(ctx, userID, (page-1)*size, size)
}

// Rebuild 从流水重算缓存，灾备/手工修数后用
func (s *ReputationService) Rebuild(ctx context.Context, userID uint64) (int64, error) {
	total, err := s.repo.Rebuild(ctx, userID)
	if err != nil {
		return 0, err
	}
	// 缓存值可能也漂了，直接删榜交给读侧重建
	if s.board != nil {
		_ = s.board.Delete(ctx)
	}
	return total, nil
}

type LeaderboardRow struct {
	UserID     uint64 `json:"user_id"`
	Name       string `json:"name"`
	Reputation int64  `json:"reputation"`
}

// Leaderboard 声望榜：缓存优先，miss 时持锁回源重建，防止全体打 DB
func (s *ReputationService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.board != nil {
		if entries, ok, err := s.board.TopCached(ctx, limit); err == nil && ok {
			return s.fillNames(entries)
		}

		token := pkg.LockToken(0)
		if got, _ := s.lock.Acquire(ctx, token); got {
			defer func() { _ = s.lock.Release(ctx, token) }()
			// 双重检查
			if entries, ok, err := s.board.TopCached(ctx, limit); err == nil && ok {
				return s.fillNames(entries)
			}
			users, err := s.userRepo.TopByReputation(limit)
			if err != nil {
				return nil, err
			}
			entries := make([]redis.LeaderboardEntry, 0, len(users))
			rows := make([]LeaderboardRow, 0, len(users))
			for _, u := range users {
				entries = append(entries, redis.LeaderboardEntry{UserID: u.ID, Reputation: u.Reputation})
				rows = append(rows, LeaderboardRow{UserID: u.ID, Name: u.Name, Reputation: u.Reputation})
			}
			if err := s.board.Rebuild(ctx, entries); err != nil {
				log.Printf("leaderboard rebuild err: %v", err)
			}
			return rows, nil
		}
	}

	// 没有缓存或没拿到锁，直接回源一次
	users, err := s.userRepo.TopByReputation(limit)
	if err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, LeaderboardRow{UserID: u.ID, Name: u.Name, Reputation: u.Reputation})
	}
	return rows, nil
}

func (s *ReputationService) fillNames(entries []redis.LeaderboardEntry) ([]LeaderboardRow, error) {
	rows := make([]LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		u, err := s.userRepo.FindByID(e.UserID)
		if err != nil {
			// 用户可能已被删除，跳过
			continue
		}
		rows = append(rows, LeaderboardRow{UserID: e.UserID, Name: u.Name, Reputation: e.Reputation})
	}
	return rows, nil
}
