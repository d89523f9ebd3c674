// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockops/ledger-be/internal/adapters/db"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/pkg/config"
	"github.com/stockops/ledger-be/internal/pkg/logger"
)

// TestDB wraps a containerized Postgres instance for integration tests
type TestDB struct {
	Pool     *dockertest.Pool
	Resource *dockertest.Resource
	Database *db.Database
	PgxPool  *pgxpool.Pool
	Config   *db.Config
}

// TestRedis wraps an in-process Redis for tests
type TestRedis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// TestLogger returns a logger suitable for tests. Verbose runs get debug
// output; otherwise only errors surface.
func TestLogger() *logger.Logger {
	level := "error"
	if testing.Verbose() {
		level = "debug"
	}
	return logger.NewLogger(&logger.LogConfig{
		Level:  level,
		Format: "text",
		Output: "stdout",
	})
}

// TestSlogger returns the underlying slog.Logger for components that take
// one directly.
func TestSlogger() *slog.Logger {
	return TestLogger().Logger
}

// SetupTestDB starts a disposable Postgres container, runs migrations and
// returns a connected database. Skips the test when Docker is unavailable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("skipping docker-based test")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=ledger",
			"POSTGRES_PASSWORD=ledger_test",
			"POSTGRES_DB=test_ledger",
			"listen_addresses = '*'",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start postgres container")

	_ = resource.Expire(300)

	cfg := &db.Config{
		Host:            "localhost",
		Port:            resource.GetPort("5432/tcp"),
		User:            "ledger",
		Password:        "ledger_test",
		Database:        "test_ledger",
		SSLMode:         "disable",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var connErr error
		database, connErr = db.NewDatabase(ctx, cfg, TestSlogger())
		if connErr != nil {
			return connErr
		}
		return database.Pool().Ping(ctx)
	})
	require.NoError(t, err, "could not connect to postgres container")

	migrationCfg := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database),
		SourcePath: migrationsPath(t),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	err = db.RunMigrationsWithRetry(ctx, migrationCfg, TestSlogger(), 3)
	require.NoError(t, err, "could not run migrations")

	tdb := &TestDB{
		Pool:     pool,
		Resource: resource,
		Database: database,
		PgxPool:  database.Pool(),
		Config:   cfg,
	}
	t.Cleanup(func() { tdb.Teardown(t) })
	return tdb
}

// Teardown closes connections and removes the container
func (tdb *TestDB) Teardown(t *testing.T) {
	t.Helper()
	if tdb.Database != nil {
		tdb.Database.Close()
	}
	if tdb.Pool != nil && tdb.Resource != nil {
		if err := tdb.Pool.Purge(tdb.Resource); err != nil {
			t.Logf("could not purge postgres container: %v", err)
		}
	}
}

// migrationsPath locates the migrations directory relative to the test's
// working directory.
func migrationsPath(t *testing.T) string {
	t.Helper()
	for _, candidate := range []string{
		"../../migrations",
		"../../../migrations",
		"migrations",
	} {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			require.NoError(t, err)
			return abs
		}
	}
	t.Fatal("could not locate migrations directory")
	return ""
}

// SetupTestRedis starts an in-process Redis and returns a connected client
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() { _ = client.Close() })

	return &TestRedis{Server: server, Client: client}
}

// LoadTestConfig returns a config populated for tests
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "ledger-api-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "error",
			LogFormat:   "text",
			Debug:       false,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "ledger",
			Password:       "ledger_test",
			Name:           "test_ledger",
			SSLMode:        "disable",
			MaxConnections: 5,
			MinConnections: 1,
			ConnectTimeout: 5 * time.Second,
		},
		Redis: config.RedisConfig{
			Host: "localhost",
			Port: "6379",
			DB:   1,
			TTL:  time.Minute,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:   "localhost:6379",
			RedisDB:     2,
			Concurrency: 2,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			RetryMax:        3,
			ShutdownTimeout: 5 * time.Second,
		},
		Ledger: config.LedgerConfig{
			StockPolicy:      "strict",
			DefaultThreshold: 10,
			AuditSchedule:    "0 2 * * *",
			CleanupSchedule:  "0 4 * * 0",
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 1000,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            "0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			GracefulTimeout: time.Second,
		},
	}
}

var barcodeCounter atomic.Int64

// CreateTestProduct builds a product with sensible defaults, applying any
// overrides in order. SKUs and barcodes are unique across calls.
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	now := time.Now()
	p := &domain.Product{
		ID:                uuid.New(),
		SKU:               fmt.Sprintf("TST-%s", uuid.NewString()[:8]),
		Barcode:           fmt.Sprintf("4006381%06d", barcodeCounter.Add(1)),
		Name:              "Test Product",
		Description:       "A product used in tests",
		Category:          domain.CategoryTools,
		UnitPrice:         decimal.NewFromFloat(19.99),
		CostPrice:         decimal.NewFromFloat(7.50),
		Location:          "A-01-01",
		LowStockThreshold: domain.DefaultLowStockThreshold,
		Quantity:          0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreateTestProducts builds count products with distinct SKUs and barcodes
func CreateTestProducts(count int) []*domain.Product {
	products := make([]*domain.Product, count)
	for i := 0; i < count; i++ {
		p := CreateTestProduct()
		p.SKU = fmt.Sprintf("TST-%04d", i)
		p.Barcode = fmt.Sprintf("4012345%06d", i)
		p.Name = fmt.Sprintf("Test Product %d", i)
		products[i] = p
	}
	return products
}

// CreateTestMovement builds a movement record for the given product. The
// delta carries the stored sign matching the type.
func CreateTestMovement(productID uuid.UUID, movementType domain.MovementType, delta int) *domain.MovementRecord {
	return &domain.MovementRecord{
		ID:        uuid.New(),
		ProductID: productID,
		Type:      movementType,
		Delta:     delta,
		Reason:    "test movement",
		Actor:     "test-runner",
		CreatedAt: time.Now(),
	}
}

// InsertProduct writes a product directly, bypassing the repository. Useful
// for seeding state before exercising the code under test.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, p *domain.Product) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, sku, barcode, name, description, category,
			unit_price, cost_price, location, low_stock_threshold, quantity,
			created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.SKU, p.Barcode, p.Name, p.Description, p.Category,
		p.UnitPrice, p.CostPrice, p.Location, p.LowStockThreshold, p.Quantity,
		p.CreatedAt, p.UpdatedAt,
	)
	require.NoError(t, err, "could not insert test product")
}

// TruncateAllTables clears all test data between test cases
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range []string{"stock_movements", "products"} {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "could not truncate %s", table)
	}
}

// LoadFixture reads a file from the testdata directory
func LoadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "could not load fixture %s", name)
	return data
}

// AssertEventuallyWithTimeout polls condition until it holds or the timeout
// elapses.
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.Fail(t, "condition never satisfied", msgAndArgs...)
}

// CreateTempFile writes content to a temp file and returns its path; the
// file is removed when the test ends.
func CreateTempFile(t *testing.T, pattern string, content []byte) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), pattern)
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}
