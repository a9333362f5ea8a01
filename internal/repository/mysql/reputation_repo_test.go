package mysql

import (
	"context"
	"sync"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEventUpdatesLedgerAndCache(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	user := createTestUser(t, db, "alice", model.RoleMentor)
	ctx := context.Background()

	entry, total, err := repo.RecordEvent(ctx, user.ID, 10, model.ActionAnswerUpvoted, "")
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
	assert.EqualValues(t, 10, entry.Points)

	// 缓存和流水必须一致
	sum, err := repo.SumPoints(ctx, user.ID)
	require.NoError(t, err)
	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, sum, fresh.Reputation)

	// outbox 同事务落了一条
	var obCount int64
	require.NoError(t, db.Model(&model.ReputationOutbox{}).Where("user_id = ?", user.ID).Count(&obCount).Error)
	assert.EqualValues(t, 1, obCount)
}

func TestRecordEventUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}

	_, _, err := repo.RecordEvent(context.Background(), 9999, 10, model.ActionAnswerUpvoted, "")
	require.ErrorIs(t, err, pkg.ErrNotFound)

	// 整个事务回滚，不能留下流水
	var count int64
	require.NoError(t, db.Model(&model.ReputationLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	user := createTestUser(t, db, "bob", model.RoleMentee)
	ctx := context.Background()

	for _, p := range []int64{10, -3, 5} {
		action := model.ActionQuestionUpvoted
		if p < 0 {
			action = model.ActionQuestionDownvoted
		}
		_, _, err := repo.RecordEvent(ctx, user.ID, p, action, "")
		require.NoError(t, err)
	}

	entries, count, total, err := repo.History(ctx, user.ID, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.EqualValues(t, 12, total)
	require.Len(t, entries, 3)
	assert.EqualValues(t, 5, entries[0].Points)
	assert.EqualValues(t, -3, entries[1].Points)
	assert.EqualValues(t, 10, entries[2].Points)
}

func TestHistoryPagination(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	user := createTestUser(t, db, "carol", model.RoleMentee)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := repo.RecordEvent(ctx, user.ID, 1, model.ActionAnswerUpvoted, "")
		require.NoError(t, err)
	}

	entries, count, _, err := repo.History(ctx, user.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
	assert.Len(t, entries, 2)

	entries, _, _, err = repo.History(ctx, user.ID, 4, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}

	_, _, _, err := repo.History(context.Background(), 404, 0, 20)
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestConcurrentEventsNoLostUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	user := createTestUser(t, db, "dave", model.RoleMentor)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.RecordEvent(context.Background(), user.ID, 1, model.ActionAnswerUpvoted, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.EqualValues(t, n, fresh.Reputation)

	sum, err := repo.SumPoints(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, sum)
}

func TestRebuildRepairsDriftedCache(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	user := createTestUser(t, db, "eve", model.RoleMentee)
	ctx := context.Background()

	_, _, err := repo.RecordEvent(ctx, user.ID, 25, model.ActionAnswerAccepted, "")
	require.NoError(t, err)

	// 人为把缓存写坏
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).UpdateColumn("reputation", 1000).Error)

	total, err := repo.Rebuild(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.EqualValues(t, 25, fresh.Reputation)
}

func TestReconcilerFixesDrift(t *testing.T) {
	db := newTestDB(t)
	repo := &ReputationRepository{DB: db}
	rec := &ReputationReconcilerRepo{DB: db}
	user := createTestUser(t, db, "frank", model.RoleMentor)
	ctx := context.Background()

	_, _, err := repo.RecordEvent(ctx, user.ID, 7, model.ActionQuestionUpvoted, "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).UpdateColumn("reputation", -1).Error)

	pairs, next, err := rec.ReconcileList(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, user.ID, next)

	real, err := rec.RealTotal(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, real)

	require.NoError(t, rec.ReconcileTotal(ctx, user.ID, real))
	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.EqualValues(t, 7, fresh.Reputation)
}
