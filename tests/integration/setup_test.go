package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/retention-center/internal/adapter/cache"
	"github.com/seu-repo/retention-center/internal/adapter/storage/postgres"
	"github.com/seu-repo/retention-center/internal/ports"
	"github.com/seu-repo/retention-center/pkg/config"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB                *gorm.DB
	Cache             ports.Cache
	Redis             *goredis.Client
	PostgresContainer testcontainers.Container
	RedisContainer    testcontainers.Container
	Logger            *zap.Logger
	ctx               context.Context
}

var testEnv *TestEnv

// SetupTestEnvironment initializes the test environment with containers
func SetupTestEnvironment(t *testing.T) *TestEnv {
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Check if using external services (CI environment)
	if os.Getenv("DATABASE_URL") != "" {
		return setupExternalServices(t, ctx)
	}

	// Use testcontainers for local testing
	return setupContainers(t, ctx)
}

func setupExternalServices(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	db := openDatabase(t, os.Getenv("DATABASE_URL"), logger)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	responseCache, redisClient := openRedis(t, ctx, redisURL, logger)

	testEnv = &TestEnv{
		DB:     db,
		Cache:  responseCache,
		Redis:  redisClient,
		Logger: logger,
		ctx:    ctx,
	}

	return testEnv
}

func setupContainers(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	// Start Postgres container
	postgresContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("retention_test"),
		tcpostgres.WithUsername("retention"),
		tcpostgres.WithPassword("retention_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	pgHost, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get postgres host: %v", err)
	}

	pgPort, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get postgres port: %v", err)
	}

	pgConnStr := fmt.Sprintf("postgres://retention:retention_test@%s:%s/retention_test?sslmode=disable", pgHost, pgPort.Port())
	db := openDatabase(t, pgConnStr, logger)

	// Start Redis container
	redisContainer, err := tcredis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis host: %v", err)
	}

	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get redis port: %v", err)
	}

	redisURL := fmt.Sprintf("redis://%s:%s", redisHost, redisPort.Port())
	responseCache, redisClient := openRedis(t, ctx, redisURL, logger)

	testEnv = &TestEnv{
		DB:                db,
		Cache:             responseCache,
		Redis:             redisClient,
		PostgresContainer: postgresContainer,
		RedisContainer:    redisContainer,
		Logger:            logger,
		ctx:               ctx,
	}

	return testEnv
}

// openDatabase connects through the production connection helper so the test
// schema comes from the same migrations the server runs.
func openDatabase(t *testing.T, url string, logger *zap.Logger) *gorm.DB {
	db, err := postgres.NewConnection(config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		AutoMigrate:     true,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	return db
}

func openRedis(t *testing.T, ctx context.Context, url string, logger *zap.Logger) (ports.Cache, *goredis.Client) {
	responseCache, err := cache.NewRedisCache(url, logger)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}

	opt, err := goredis.ParseURL(url)
	if err != nil {
		t.Fatalf("Failed to parse redis URL: %v", err)
	}
	redisClient := goredis.NewClient(opt)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to ping redis: %v", err)
	}

	return responseCache, redisClient
}

// TeardownTestEnvironment cleans up the test environment
func TeardownTestEnvironment(t *testing.T) {
	if testEnv == nil {
		return
	}

	ctx := context.Background()

	if testEnv.DB != nil {
		postgres.Close(testEnv.DB)
	}

	if testEnv.Cache != nil {
		testEnv.Cache.Close()
	}

	if testEnv.Redis != nil {
		testEnv.Redis.Close()
	}

	if testEnv.PostgresContainer != nil {
		if err := testEnv.PostgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	}

	if testEnv.RedisContainer != nil {
		if err := testEnv.RedisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	}

	testEnv = nil
}

// CleanDatabase truncates all tables
func CleanDatabase(t *testing.T, db *gorm.DB) {
	tables := []string{
		"contact_events",
		"subscriptions",
		"orders",
		"customers",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			// Table might not exist yet, that's ok
			t.Logf("Failed to truncate %s: %v", table, err)
		}
	}
}

// FlushRedis clears all Redis keys
func FlushRedis(t *testing.T, client *goredis.Client) {
	ctx := context.Background()
	if err := client.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
