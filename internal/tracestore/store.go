// Package tracestore persists pattern and provider faults so that noisy
// conditions and failing completion handlers can be inspected later.
package tracestore

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthTokenEnv names the environment variable holding the libsql token.
const AuthTokenEnv = "RSMATCH_LIBSQL_AUTH_TOKEN"

// Source tells which stage of dispatch produced a fault.
type Source string

const (
	SourceCondition Source = "condition"
	SourceHandler   Source = "handler"
)

// Fault is one recorded diagnostic.
type Fault struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SessionID string `gorm:"type:varchar(36);index"`

	Source   Source `gorm:"type:varchar(20);not null;index"`
	Name     string `gorm:"type:varchar(255);not null"` // condition or provider name
	NodeKind string `gorm:"type:varchar(50)"`
	NodeText string `gorm:"type:text"`
	Message  string `gorm:"type:text"`

	// Offset and ancestor kinds of the node.
	Detail datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Connect opens the store and runs migrations. Plain paths open a local
// sqlite file; libsql:// and http(s):// DSNs go through the libsql client.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if !isURL(dsn) && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv(AuthTokenEnv); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func isURL(dsn string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// Migrate creates or updates the fault table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fault{})
}

// Recent returns up to limit faults, newest first.
func Recent(db *gorm.DB, limit int) ([]Fault, error) {
	var faults []Fault
	q := db.Order("created_at desc").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&faults).Error; err != nil {
		return nil, fmt.Errorf("loading faults: %w", err)
	}
	return faults, nil
}

// Summary counts faults per source and name.
type Summary struct {
	Source Source
	Name   string
	Count  int64
}

// Summarize groups all recorded faults, most frequent first.
func Summarize(db *gorm.DB) ([]Summary, error) {
	var rows []Summary
	err := db.Model(&Fault{}).
		Select("source, name, count(*) as count").
		Group("source, name").
		Order("count desc, name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("summarizing faults: %w", err)
	}
	return rows, nil
}
