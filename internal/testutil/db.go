// Package testutil 提供测试用的内存数据库。
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"music-go/internal/config"
	"music-go/internal/infra/database"
	"music-go/internal/model"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB 打开一个独立的内存 SQLite 并完成迁移。
// 单连接保证同一测试内事务串行执行。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   dsn,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db, model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
