// Package store persists the meta schema (tables, fields, views) and
// owns the DDL for the generated user tables backing them.
package store

import (
	"context"
	_ "embed"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/fields"
)

//go:embed schema.sql
var schemaSQL string

var (
	ErrTableNotFound        = errors.New("table not found")
	ErrFieldNotFound        = errors.New("field not found")
	ErrSelectOptionNotFound = errors.New("select option not found")
	ErrViewNotFound         = errors.New("view not found")
	ErrViewFilterNotFound   = errors.New("view filter not found")
	ErrViewSortNotFound     = errors.New("view sort not found")
)

// Store reads and writes the meta tables and keeps the generated
// user tables in sync with them.
type Store struct {
	pool       *db.Pool
	fieldTypes *fields.Registry
	logger     *zap.Logger
}

func NewStore(pool *db.Pool, fieldTypes *fields.Registry, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, fieldTypes: fieldTypes, logger: logger}
}

// Migrate applies the embedded meta schema. All statements are
// idempotent, so running it on every startup is safe.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Execute(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "failed to apply meta schema")
	}
	s.logger.Debug("meta schema up to date")
	return nil
}
