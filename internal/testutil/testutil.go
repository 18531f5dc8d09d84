package testutil

import (
	"context"
	"fmt"
	"go-gin-rsvp/config"
	"go-gin-rsvp/internal/database"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SetupDatabase 連線測試 DB 並套用 schema
func SetupDatabase() (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()

	testDB, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %v", err)
	}

	if err := database.EnsureSchema(context.Background(), testDB); err != nil {
		testDB.Close()
		return nil, nil, err
	}

	log.Println("Test database connected successfully")

	cleanup := func() {
		testDB.Close()
		log.Println("Test database closed")
	}
	return testDB, cleanup, nil
}

// SetupRedisOnly 僅初始化 Redis，用於只依賴 Redis 的測試（如 queue、cache 整合測試）
func SetupRedisOnly() (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %v", err)
	}
	log.Println("Test redis connected successfully")

	cleanup := func() { rdb.Close() }
	return rdb, cleanup, nil
}

// TruncateAll 清空所有測試資料，保留 schema
func TruncateAll(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, "TRUNCATE rsvps, events RESTART IDENTITY CASCADE")
	return err
}

// Setup 同時初始化 DB 與 Redis，用於完整流程的整合測試
func Setup() (*pgxpool.Pool, *redis.Client, func(), error) {
	db, dbCleanup, err := SetupDatabase()
	if err != nil {
		return nil, nil, nil, err
	}
	rdb, redisCleanup, err := SetupRedisOnly()
	if err != nil {
		dbCleanup()
		return nil, nil, nil, err
	}

	cleanup := func() {
		redisCleanup()
		dbCleanup()
	}
	return db, rdb, cleanup, nil
}
