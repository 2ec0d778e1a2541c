package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
)

//go:embed *.sql
var files embed.FS

// ErrMigration возвращается при ошибке применения миграции
var ErrMigration = errors.New("migrations: failed to apply")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Apply применяет еще не примененные миграции в лексикографическом порядке
func Apply(ctx context.Context, db dbmetrics.DBExecutor, log Logger) (int, error) {
	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrMigration, err)
	}

	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("%w: list files: %v", ErrMigration, err)
	}
	sort.Strings(names)

	applied := 0
	for _, name := range names {
		done, err := isApplied(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		body, err := files.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("%w: read %s: %v", ErrMigration, name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("%w: %s: %v", ErrMigration, name, err)
		}

		query, args, err := psqlbuilder.Insert("schema_migrations").Columns("version").Values(name).ToSql()
		if err != nil {
			return applied, fmt.Errorf("%w: build insert: %v", ErrMigration, err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return applied, fmt.Errorf("%w: record %s: %v", ErrMigration, name, err)
		}

		log.Info("Migrations: applied %s", name)
		applied++
	}

	return applied, nil
}

func isApplied(ctx context.Context, db dbmetrics.DBExecutor, name string) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("schema_migrations").
		Where(squirrel.Eq{"version": name}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: build select: %v", ErrMigration, err)
	}

	var one int
	err = db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %v", ErrMigration, name, err)
	}
	return true, nil
}
