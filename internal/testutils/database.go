package testutils

import (
	"fmt"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/model"
	"terminal-terrace/library/packages/database"
)

// SetupTestDB returns a migrated database for one test.
// With TEST_DATABASE_DSN set it runs against PostgreSQL inside a transaction
// that is rolled back on cleanup; otherwise it uses a private in-memory SQLite
// database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		return setupPostgres(t, dsn)
	}
	return setupSQLite(t)
}

// UsingPostgres reports whether tests run against PostgreSQL.
func UsingPostgres() bool {
	return os.Getenv("TEST_DATABASE_DSN") != ""
}

func setupPostgres(t *testing.T, dsn string) *gorm.DB {
	db, err := database.Open(postgres.Open(dsn), "silent")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return tx
}

func setupSQLite(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), "silent")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// 单连接, 保证所有查询落在同一个内存库上
	sqlDB.SetMaxOpenConns(1)

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupTestRedis starts an in-process Redis server for one test.
func SetupTestRedis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return database.NewRedisClient(client), mr
}
