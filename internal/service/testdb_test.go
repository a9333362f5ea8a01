package service

import (
	"path/filepath"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ReputationLedgerEntry{},
		&model.ReputationOutbox{},
		&model.Badge{},
		&model.BadgeAward{},
		&model.Question{},
		&model.Answer{},
		&model.Vote{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Name:     name,
		Email:    name + "@mentorstack.dev",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func ledgerCount(t *testing.T, db *gorm.DB, userID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.ReputationLedgerEntry{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func awardCount(t *testing.T, db *gorm.DB, userID, badgeID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.BadgeAward{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&n).Error)
	return n
}
