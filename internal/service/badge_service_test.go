package service

import (
	"context"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	_, err := svc.Create("   ", "", 10, "")
	require.ErrorIs(t, err, pkg.ErrInvalidArgument)

	_, err = svc.Create("Helper", "", -1, "")
	require.ErrorIs(t, err, pkg.ErrInvalidArgument)

	badge, err := svc.Create("Helper", "ten answers", 0, "")
	require.NoError(t, err)
	assert.True(t, badge.IsActive)
}

func TestEvaluateIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	ctx := context.Background()
	u := createTestUser(t, db, "mentor-eval", model.RoleMentor)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", u.ID).Update("reputation", 100).Error)

	badge, err := svc.Create("Centurion", "reach 100", 100, "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Evaluate(ctx, u.ID))
	}
	assert.EqualValues(t, 1, awardCount(t, db, u.ID, badge.ID))
}

func TestEvaluateUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	err := svc.Evaluate(context.Background(), 9999)
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestDeactivatedBadgeNotAwarded(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	ctx := context.Background()
	u := createTestUser(t, db, "mentor-off", model.RoleMentor)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", u.ID).Update("reputation", 50).Error)

	badge, err := svc.Create("Fifty", "reach 50", 50, "")
	require.NoError(t, err)
	require.NoError(t, svc.ToggleActive(badge.ID))

	require.NoError(t, svc.Evaluate(ctx, u.ID))
	assert.EqualValues(t, 0, awardCount(t, db, u.ID, badge.ID))

	// 重新启用后可以授予
	require.NoError(t, svc.ToggleActive(badge.ID))
	require.NoError(t, svc.Evaluate(ctx, u.ID))
	assert.EqualValues(t, 1, awardCount(t, db, u.ID, badge.ID))
}

func TestDeactivationKeepsExistingAwards(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	ctx := context.Background()
	u := createTestUser(t, db, "mentor-keep", model.RoleMentor)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", u.ID).Update("reputation", 50).Error)

	badge, err := svc.Create("Fifty", "reach 50", 50, "")
	require.NoError(t, err)
	require.NoError(t, svc.Evaluate(ctx, u.ID))
	require.EqualValues(t, 1, awardCount(t, db, u.ID, badge.ID))

	require.NoError(t, svc.ToggleActive(badge.ID))
	assert.EqualValues(t, 1, awardCount(t, db, u.ID, badge.ID))

	awards, err := svc.UserBadges(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, badge.ID, awards[0].BadgeID)
}

func TestUserBadgesUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	_, err := svc.UserBadges(context.Background(), 9999)
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestToggleUnknownBadge(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	err := svc.ToggleActive(9999)
	require.ErrorIs(t, err, pkg.ErrNotFound)
}
