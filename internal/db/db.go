package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/util"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var (
	dbName = "gesturepad.sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Database struct {
	db *sql.DB
}

func New(ctx context.Context) (*Database, error) {
	if err := os.MkdirAll(util.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create config directory: %w", err)
	}
	fp := filepath.Join(util.ConfigDir, dbName)
	sqlDb, err := sql.Open("sqlite", fp)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	d := &Database{sqlDb}
	err = d.runMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}
	return d, nil
}

func (d *Database) runMigrations(ctx context.Context) error {
	err := goose.SetDialect("sqlite")
	if err != nil {
		return fmt.Errorf("could not set dialect 'sqlite': %w", err)
	}
	goose.SetLogger(logging.PadLoggerGoose{})
	goose.SetBaseFS(embedMigrations)

	if err = goose.UpContext(ctx, d.db, "migrations"); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *Database) Queries() *Queries {
	return &Queries{d.db}
}
