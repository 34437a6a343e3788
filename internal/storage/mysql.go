package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const createSlotsTable = `CREATE TABLE IF NOT EXISTS kv_slots (
    slot_key VARCHAR(191) PRIMARY KEY,
    slot_value LONGBLOB NOT NULL,
    updated_at TIMESTAMP(6) DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
)`

const upsertSlot = `INSERT INTO kv_slots (slot_key, slot_value) VALUES (?, ?)
ON DUPLICATE KEY UPDATE slot_value = VALUES(slot_value)`

// MySQLSlot stores values as rows of the kv_slots table.
type MySQLSlot struct {
	db *sql.DB
}

// OpenMySQLSlot connects to dsn, verifies the connection, and creates the
// kv_slots table if needed.
func OpenMySQLSlot(ctx context.Context, dsn string) (*MySQLSlot, error) {
	normalized, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	s := &MySQLSlot{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMySQLSlot wraps an existing connection pool. The table is assumed to
// exist.
func NewMySQLSlot(db *sql.DB) *MySQLSlot {
	return &MySQLSlot{db: db}
}

func (s *MySQLSlot) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("create kv_slots table: %w", err)
	}
	return nil
}

func (s *MySQLSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT slot_value FROM kv_slots WHERE slot_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot %q: %w", key, err)
	}
	return data, true, nil
}

func (s *MySQLSlot) Set(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSlot, key, data); err != nil {
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}

func (s *MySQLSlot) Close() error { return s.db.Close() }

// normalizeDSN validates dsn and forces the settings the slot relies on.
func normalizeDSN(dsn string) (string, error) {
	if strings.TrimSpace(dsn) == "" {
		return "", errors.New("mysql dsn is empty")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", errors.New("mysql dsn has no database name")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
