package mysql

import (
	"context"
	"errors"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func (r *BadgeRepository) Create(b *model.Badge) error {
	return r.DB.Create(b).Error
}

func (r *BadgeRepository) FindByID(id uint64) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &badge, err
}

func (r *BadgeRepository) Update(id uint64, fields map[string]any) error {
	res := r.DB.Model(&model.Badge{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

// ToggleActive 启停翻转；停用不收回已授出的徽章
func (r *BadgeRepository) ToggleActive(id uint64) error {
	res := r.DB.Model(&model.Badge{}).
		Where("id = ?", id).
		UpdateColumn("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

// List 目录全量（后台用），AwardedCount 即时 COUNT 出来
func (r *BadgeRepository) List(ctx context.Context) ([]model.Badge, error) {
	var list []model.Badge
	if err := r.DB.WithContext(ctx).Order("reputation_threshold ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&model.BadgeAward{}).
			Where("badge_id = ?", list[i].ID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		list[i].AwardedCount = n
	}
	return list, nil
}

// ActiveWithin 当前总分够得着的启用徽章
func (r *BadgeRepository) ActiveWithin(ctx context.Context, reputation int64) ([]model.Badge, error) {
	var list []model.Badge
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND reputation_threshold <= ?", true, reputation).
		Find(&list).Error
	return list, err
}

// Award 幂等授予：唯一键 (user_id, badge_id) 冲突时 DoNothing，
// RowsAffected==0 表示早就有了，视为成功
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&model.BadgeAward{UserID: userID, BadgeID: badgeID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AwardsForUser 用户已持有的徽章记录
func (r *BadgeRepository) AwardsForUser(ctx context.Context, userID uint64) ([]model.BadgeAward, error) {
	var list []model.BadgeAward
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
