package mysql

import (
	"context"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBadge(t *testing.T, repo *BadgeRepository, name string, threshold int64, active bool) *model.Badge {
	t.Helper()
	b := &model.Badge{Name: name, ReputationThreshold: threshold, IsActive: active}
	require.NoError(t, repo.Create(b))
	return b
}

func TestAwardIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := &BadgeRepository{DB: db}
	user := createTestUser(t, db, "alice", model.RoleMentor)
	badge := createTestBadge(t, repo, "Helper", 10, true)
	ctx := context.Background()

	awarded, err := repo.Award(ctx, user.ID, badge.ID)
	require.NoError(t, err)
	assert.True(t, awarded)

	// 重复授予：不报错、不生效
	awarded, err = repo.Award(ctx, user.ID, badge.ID)
	require.NoError(t, err)
	assert.False(t, awarded)

	var count int64
	require.NoError(t, db.Model(&model.BadgeAward{}).
		Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestActiveWithinExcludesInactiveAndAboveThreshold(t *testing.T) {
	db := newTestDB(t)
	repo := &BadgeRepository{DB: db}
	ctx := context.Background()

	createTestBadge(t, repo, "Bronze", 10, true)
	createTestBadge(t, repo, "Silver", 50, true)
	createTestBadge(t, repo, "Hidden", 5, false)

	badges, err := repo.ActiveWithin(ctx, 12)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "Bronze", badges[0].Name)
}

func TestToggleActive(t *testing.T) {
	db := newTestDB(t)
	repo := &BadgeRepository{DB: db}
	badge := createTestBadge(t, repo, "Bronze", 10, true)

	require.NoError(t, repo.ToggleActive(badge.ID))
	fresh, err := repo.FindByID(badge.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsActive)

	require.NoError(t, repo.ToggleActive(badge.ID))
	fresh, err = repo.FindByID(badge.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsActive)

	require.ErrorIs(t, repo.ToggleActive(9999), pkg.ErrNotFound)
}

func TestListCountsAwards(t *testing.T) {
	db := newTestDB(t)
	repo := &BadgeRepository{DB: db}
	ctx := context.Background()

	badge := createTestBadge(t, repo, "Bronze", 10, true)
	u1 := createTestUser(t, db, "u1", model.RoleMentee)
	u2 := createTestUser(t, db, "u2", model.RoleMentee)

	_, err := repo.Award(ctx, u1.ID, badge.ID)
	require.NoError(t, err)
	_, err = repo.Award(ctx, u2.ID, badge.ID)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 2, list[0].AwardedCount)
}
