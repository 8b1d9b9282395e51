package store

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/models"
)

// CreateTable inserts the meta row and creates the generated table
// backing it. The generated table always carries the id, "order" and
// timestamp columns; user columns are added per field afterwards.
func (s *Store) CreateTable(ctx context.Context, name string) (models.Table, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Table{}, err
	}
	defer tx.Rollback(ctx)

	var table models.Table
	table.Name = name
	err = tx.QueryRow(ctx, `
		INSERT INTO database_table (name, "order")
		VALUES ($1, (SELECT COALESCE(MAX("order"), 0) + 1 FROM database_table))
		RETURNING id, "order", created_on, updated_on`,
		name,
	).Scan(&table.ID, &table.Order, &table.CreatedOn, &table.UpdatedOn)
	if err != nil {
		return models.Table{}, errors.Wrap(err, "failed to insert table")
	}

	ddl := fmt.Sprintf(`CREATE TABLE %s (
		id bigserial PRIMARY KEY,
		"order" numeric(40,20) NOT NULL DEFAULT 1,
		created_on timestamptz NOT NULL DEFAULT now(),
		updated_on timestamptz NOT NULL DEFAULT now()
	)`, table.DatabaseTableName())
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return models.Table{}, errors.Wrapf(err, "failed to create %s", table.DatabaseTableName())
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Table{}, errors.Wrap(err, "failed to commit table creation")
	}
	s.logger.Info("created table",
		zap.Int64("table_id", table.ID),
		zap.String("name", table.Name))
	return table, nil
}

func (s *Store) GetTable(ctx context.Context, id int64) (models.Table, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, name, "order", created_on, updated_on
		FROM database_table WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.Table{}, errors.Wrapf(ErrTableNotFound, "table %d", id)
		}
		return models.Table{}, err
	}
	return scanTable(row), nil
}

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, "order", created_on, updated_on
		FROM database_table ORDER BY "order", id`)
	if err != nil {
		return nil, err
	}
	tables := make([]models.Table, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, scanTable(row))
	}
	return tables, nil
}

func (s *Store) RenameTable(ctx context.Context, id int64, name string) error {
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_table SET name = $1, updated_on = now()
		WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrTableNotFound, "table %d", id)
	}
	return nil
}

// DeleteTable drops the generated table and any relation tables owned
// by its link fields, then removes the meta row. The fields, views,
// filters and sorts cascade off the meta row.
func (s *Store) DeleteTable(ctx context.Context, id int64) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}
	tableFields, err := s.ListFields(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, field := range tableFields {
		if field.Type == models.FieldTypeLinkRow {
			drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", field.RelationTableName())
			if _, err := tx.Exec(ctx, drop); err != nil {
				return errors.Wrapf(err, "failed to drop %s", field.RelationTableName())
			}
		}
	}
	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", table.DatabaseTableName())
	if _, err := tx.Exec(ctx, drop); err != nil {
		return errors.Wrapf(err, "failed to drop %s", table.DatabaseTableName())
	}
	if _, err := tx.Exec(ctx, "DELETE FROM database_table WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "failed to delete table")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit table deletion")
	}
	s.logger.Info("deleted table", zap.Int64("table_id", id))
	return nil
}
