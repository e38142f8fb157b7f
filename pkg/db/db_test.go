package db

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/config"
	"energy-report-service/pkg/models"
	_ "energy-report-service/pkg/testing"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)
	require.NotNil(t, instance)

	var tables = []string{"telemetry", "prices", "forecasts"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}

	// running the migration again must be a no-op
	require.NoError(t, instance.Migrate())
}

func TestMemoryDialectorIsolation(t *testing.T) {
	common.SetTestLoggerNop()

	first, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)
	second, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)

	require.NoError(t, first.Conn.Create(&models.Telemetry{Timestamp: time.Now().UTC()}).Error)

	var count int64
	require.NoError(t, second.Conn.Model(&models.Telemetry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance, err := GetInstance(UseMemorySqliteDialector())
			if err != nil {
				t.Error(err)
			}
			instances <- instance
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestPriceGridConstraint(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)

	aligned := models.Price{Timestamp: time.Date(2024, 5, 1, 10, 45, 0, 0, time.UTC), Price: common.Ptr(42.0)}
	require.NoError(t, instance.Conn.Create(&aligned).Error)

	misaligned := models.Price{Timestamp: time.Date(2024, 5, 1, 10, 50, 0, 0, time.UTC)}
	err = ClassifyError(instance.Conn.Create(&misaligned).Error)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	for _, ts := range []time.Time{
		time.Date(2024, 5, 1, 11, 0, 30, 0, time.UTC),
		time.Date(2024, 5, 1, 11, 15, 0, 500_000_000, time.UTC),
		time.Date(2024, 5, 1, 11, 30, 0, 1000, time.UTC),
	} {
		offGrid := models.Price{Timestamp: ts}
		err = ClassifyError(instance.Conn.Create(&offGrid).Error)
		assert.ErrorIs(t, err, ErrConstraintViolation, "ts %s", ts.Format(time.RFC3339Nano))
	}

	duplicate := models.Price{Timestamp: aligned.Timestamp, Price: common.Ptr(1.0)}
	err = ClassifyError(instance.Conn.Create(&duplicate).Error)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	var stored models.Price
	require.NoError(t, instance.Conn.First(&stored, "ts = ?", aligned.Timestamp).Error)
	assert.Equal(t, 42.0, *stored.Price)
}

func TestClassifyError(t *testing.T) {
	assert.NoError(t, ClassifyError(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, ClassifyError(plain))

	assert.ErrorIs(t, ClassifyError(sqlite3.Error{Code: sqlite3.ErrConstraint}), ErrConstraintViolation)
	assert.ErrorIs(t, ClassifyError(sqlite3.Error{Code: sqlite3.ErrCantOpen}), ErrStorageUnavailable)

	uniqueViolation := &pgconn.PgError{Code: "23505", Message: "duplicate key", ConstraintName: "prices_pkey"}
	assert.ErrorIs(t, ClassifyError(fmt.Errorf("insert: %w", uniqueViolation)), ErrConstraintViolation)
	assert.ErrorIs(t, ClassifyError(&pgconn.PgError{Code: "08006"}), ErrStorageUnavailable)

	already := fmt.Errorf("%w: row 3", ErrConstraintViolation)
	assert.Same(t, already, ClassifyError(already))
}

func TestDialectorFor(t *testing.T) {
	d, err := DialectorFor(&config.Config{DBType: config.DBTypeMemory})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = DialectorFor(&config.Config{DBType: config.DBTypePostgres, DBDSN: "postgres://localhost/energy"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = DialectorFor(&config.Config{DBType: "oracle"})
	assert.Error(t, err)
}
