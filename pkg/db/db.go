package db

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/config"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance    *DB
	instanceErr error
	once        sync.Once
)

// GetInstance opens the process-wide connection once, then returns it to every
// caller. A failed first open is remembered and returned on every later call.
func GetInstance(dialector gorm.Dialector) (*DB, error) {
	once.Do(func() {
		instance, instanceErr = Open(dialector)
	})
	return instance, instanceErr
}

// Open connects and runs the idempotent schema migration. Request handlers
// assume the schema already exists.
func Open(dialector gorm.Dialector) (*DB, error) {
	log := common.GetLoggerWith(common.LoggerNameDB)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrStorageUnavailable, dialector.Name(), err)
	}

	log.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if dialector.Name() == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		// sqlite has a single writer
		sqlDB.SetMaxOpenConns(1)

		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("%w: enable sqlite foreign keys: %v", ErrStorageUnavailable, err)
		}
		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("%w: set sqlite journal mode: %v", ErrStorageUnavailable, err)
		}
	}

	d := &DB{Conn: conn}
	if err := d.Migrate(); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStorageUnavailable, err)
	}

	log.Info("Database migration completed")
	return d, nil
}

// DialectorFor picks the gorm dialector matching cfg.DBType.
func DialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case config.DBTypeFile:
		return UseSqliteDialector(cfg.DBPath), nil
	case config.DBTypeMemory:
		return UseMemorySqliteDialector(), nil
	case config.DBTypePostgres:
		return UsePostgresDialector(cfg.DBDSN), nil
	default:
		return nil, fmt.Errorf("unknown db type %q", cfg.DBType)
	}
}

func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = "energy.db"
	}
	return sqlite.Open(dbPath)
}

// UseMemorySqliteDialector returns a private in-memory database; every call
// yields a fresh, empty store.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// UseImmutableSqliteDialector opens an sqlite file that nothing else writes
// while it is open; sqlite then skips locking and journal recovery.
func UseImmutableSqliteDialector(path string) gorm.Dialector {
	return sqlite.Open("file:" + path + "?immutable=1")
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}
