package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig describes one postgres endpoint. URL wins over the
// discrete fields; hosted databases hand out a single connection string.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// loadDatabaseConfig reads POSTGRES_<ROLE>_* settings. The reader falls back
// to the writer's URL so a single-node setup needs one variable.
func loadDatabaseConfig(role string) *DatabaseConfig {
	prefix := "POSTGRES_" + strings.ToUpper(role) + "_"
	url := getEnvWithDefault("DATABASE_URL", "")
	if role == "reader" {
		url = getEnvWithDefault("DATABASE_READER_URL", url)
	}

	return &DatabaseConfig{
		URL:             url,
		Host:            getEnvWithDefault(prefix+"HOST", "localhost"),
		Port:            getEnvWithDefault(prefix+"PORT", "5432"),
		User:            getEnvWithDefault(prefix+"USER", "postgres"),
		Password:        getEnvWithDefault(prefix+"PASSWORD", ""),
		DBName:          getEnvWithDefault(prefix+"DB_NAME", "tagorder"),
		SSLMode:         getEnvWithDefault(prefix+"SSL_MODE", "disable"),
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func (c *DatabaseConfig) buildDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Open connects and applies the pool limits.
func (c *DatabaseConfig) Open() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.buildDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)

	return db, nil
}

// DatabaseConnections splits reads from writes. Writer and Reader may point
// at the same server.
type DatabaseConnections struct {
	Writer *gorm.DB
	Reader *gorm.DB
}

func NewDatabaseConnections() (*DatabaseConnections, error) {
	writer, err := loadDatabaseConfig("writer").Open()
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}

	reader, err := loadDatabaseConfig("reader").Open()
	if err != nil {
		closeDB(writer)
		return nil, fmt.Errorf("reader: %w", err)
	}

	return &DatabaseConnections{Writer: writer, Reader: reader}, nil
}

func (dc *DatabaseConnections) Close() error {
	return errors.Join(closeDB(dc.Writer), closeDB(dc.Reader))
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
