package database

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"jobfair/config"
	logg "jobfair/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	FormState CacheClient
}

// DB bundles the diagnostics store and the session cache. Either side may be
// absent when it is not configured.
type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	log := s.log.Function("initializeDB")

	if config.DatabaseDbPath == "" {
		log.Warn("database path is empty, dispatch diagnostics are disabled")
		return nil
	}

	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	if err := s.initializeSQLiteDB(gormConfig, config.DatabaseDbPath); err != nil {
		return err
	}

	if _, err := Migrate(s.SQL, MigrateUp); err != nil {
		return log.Err("failed to migrate database", err)
	}

	return nil
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, dbPath string) error {
	log := s.log.Function("initializeSQLiteDB")

	dir := filepath.Dir(dbPath)
	log.Info("Creating database directory", "dir", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.Err("failed to create database directory", err, "dir", dir)
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.CacheAddress == "" {
		log.Info("cache address is empty, using in-process form state")
		return nil
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{config.CacheAddress},
		Password:    config.CachePassword,
		SelectDB:    config.CacheDB,
	})
	if err != nil {
		return log.Err("failed to connect to cache", err, "address", config.CacheAddress)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return log.Err("failed to ping cache", err, "address", config.CacheAddress)
	}

	log.Info("Successfully connected to cache", "address", config.CacheAddress)
	s.Cache.FormState = client

	return nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	if s.Cache.FormState != nil {
		s.Cache.FormState.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	if s.Cache.FormState == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.Cache.FormState
	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		return log.Err("failed to flush cache database", err, "cache", "FormState")
	}

	log.Info("Successfully flushed cache database", "cache", "FormState")
	return nil
}
