package mysql

import (
	"path/filepath"
	"testing"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立 sqlite 文件库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite 单写者，连接收敛到 1，避免并发测试触发 busy
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
