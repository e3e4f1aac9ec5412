package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Open opens a SQLite database through the pure-Go driver.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("persistence: open %q: %w", path, err)
	}
	return db, nil
}

// Connect opens path and pings it, retrying while the file is locked or
// its directory is not mounted yet. opts extend the default policy of four
// attempts with exponential backoff.
func Connect(ctx context.Context, path string, opts ...retry.Option) (*gorm.DB, error) {
	var db *gorm.DB
	err := retry.Do(func() error {
		opened, err := Open(path)
		if err != nil {
			return err
		}
		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("persistence: ping %q: %w", path, err)
		}
		db = opened
		return nil
	}, append([]retry.Option{
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(250 * time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	return db, nil
}

var migrateMu sync.Mutex

// Migrate applies the goose migrations found under dir in fsys.
func Migrate(ctx context.Context, db *gorm.DB, fsys fs.FS, dir string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("persistence: migrate: %w", err)
	}

	// goose keeps its dialect and base FS in package state.
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("persistence: migrate: %w", err)
	}
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("persistence: migrate: %w", err)
	}
	return nil
}

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection for read queries.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// EntityManager returns a fresh unit of work. Every gorm model shares the
// same connection, so the entity only serves to reject nil values.
func (s *GormStore) EntityManager(entity any) (EntityManager, error) {
	if entity == nil {
		return nil, errors.New("persistence: nil entity")
	}
	return &UnitOfWork{db: s.db}, nil
}

// SingleIdentifier returns the primary key value of entity. Entities with a
// composite key or an unsaved (zero) key yield ErrNoIdentifier.
func (s *GormStore) SingleIdentifier(entity any) (any, error) {
	if entity == nil {
		return nil, ErrNoIdentifier
	}
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(entity); err != nil {
		return nil, fmt.Errorf("persistence: parse %T: %w", entity, err)
	}
	if len(stmt.Schema.PrimaryFields) != 1 {
		return nil, fmt.Errorf("%w: %T has %d primary fields", ErrNoIdentifier, entity, len(stmt.Schema.PrimaryFields))
	}

	value, zero := stmt.Schema.PrimaryFields[0].ValueOf(context.Background(), reflect.Indirect(reflect.ValueOf(entity)))
	if zero {
		return nil, fmt.Errorf("%w: %T is not saved", ErrNoIdentifier, entity)
	}
	return value, nil
}

// UnitOfWork queues entities and saves them in one transaction on Flush.
type UnitOfWork struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []any
}

// Persist queues entity for the next Flush. Queuing the same pointer twice
// saves it once.
func (u *UnitOfWork) Persist(_ context.Context, entity any) error {
	if entity == nil {
		return errors.New("persistence: nil entity")
	}
	if reflect.ValueOf(entity).Kind() != reflect.Pointer {
		return fmt.Errorf("persistence: %T is not a pointer", entity)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, queued := range u.pending {
		if queued == entity {
			return nil
		}
	}
	u.pending = append(u.pending, entity)
	return nil
}

// Flush saves every queued entity. The queue is kept when the transaction
// fails so the caller can inspect or retry it.
func (u *UnitOfWork) Flush(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.pending) == 0 {
		return nil
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entity := range u.pending {
			if err := tx.Save(entity).Error; err != nil {
				return fmt.Errorf("save %T: %w", entity, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persistence: flush: %w", err)
	}
	u.pending = nil
	return nil
}
