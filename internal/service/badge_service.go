package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"

	"gorm.io/gorm"
)

type BadgeService struct {
	repo     *mysql.BadgeRepository
	userRepo *mysql.UserRepository
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{
		repo:     &mysql.BadgeRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

func (s *BadgeService) Create(name, description string, threshold int64, imageURL string) (*model.Badge, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: badge name required", pkg.ErrInvalidArgument)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must be >= 0", pkg.ErrInvalidArgument)
	}
	badge := &model.Badge{
		Name:                name,
		Description:         description,
		ReputationThreshold: threshold,
		ImageURL:            imageURL,
		IsActive:            true,
	}
	if err := s.repo.Create(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) Update(id uint64, name, description string, threshold int64, imageURL string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: badge name required", pkg.ErrInvalidArgument)
	}
	if threshold < 0 {
		return fmt.Errorf("%w: threshold must be >= 0", pkg.ErrInvalidArgument)
	}
	return s.repo.Update(id, map[string]any{
		"name":                 name,
		"description":          description,
		"reputation_threshold": threshold,
		"image_url":            imageURL,
	})
}

// ToggleActive 停用只挡住后续授予，已有的不收回
func (s *BadgeService) ToggleActive(id uint64) error {
	return s.repo.ToggleActive(id)
}

func (s *BadgeService) List(ctx context.Context) ([]model.Badge, error) {
	return s.repo.List(ctx)
}

func (s *BadgeService) UserBadges(ctx context.Context, userID uint64) ([]model.BadgeAward, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, err
	}
	return s.repo.AwardsForUser(ctx, userID)
}

// Evaluate 读当前总分后评估；可随时重跑，结果幂等
func (s *BadgeService) Evaluate(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	s.EvaluateAt(ctx, userID, user.Reputation)
	return nil
}

// EvaluateAt 按给定总分评估达标徽章并逐个尝试授予。
// 唯一键兜底幂等：已授过的插入不生效，视为成功；其余失败只记日志，
// 绝不回传给触发它的业务动作。
func (s *BadgeService) EvaluateAt(ctx context.Context, userID uint64, reputation int64) {
	badges, err := s.repo.ActiveWithin(ctx, reputation)
	if err != nil {
		log.Printf("badge evaluate query err: user=%d %v", userID, err)
		return
	}
	for _, b := range badges {
		awarded, err := s.repo.Award(ctx, userID, b.ID)
		if err != nil {
			log.Printf("badge award err: user=%d badge=%d %v", userID, b.ID, err)
			continue
		}
		if awarded {
			log.Printf("badge awarded: user=%d badge=%d (%s)", userID, b.ID, b.Name)
		}
	}
}
