package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/models"
)

// CreateField inserts the meta row and adds the backing storage to the
// generated table, either a column or a relation table depending on
// the field type.
func (s *Store) CreateField(ctx context.Context, table models.Table, field models.Field) (models.Field, error) {
	fieldType, err := s.fieldTypes.Get(field.Type)
	if err != nil {
		return models.Field{}, err
	}
	config, err := json.Marshal(field.Config)
	if err != nil {
		return models.Field{}, errors.Wrap(err, "failed to encode field config")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Field{}, err
	}
	defer tx.Rollback(ctx)

	field.TableID = table.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO database_field (table_id, name, type, "order", "primary", config)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX("order"), 0) + 1 FROM database_field WHERE table_id = $1),
			$4, $5)
		RETURNING id, "order"`,
		table.ID, field.Name, field.Type, field.Primary, config,
	).Scan(&field.ID, &field.Order)
	if err != nil {
		return models.Field{}, errors.Wrap(err, "failed to insert field")
	}

	if err := s.createFieldStorage(ctx, tx, table, field, fieldType); err != nil {
		return models.Field{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Field{}, errors.Wrap(err, "failed to commit field creation")
	}
	s.logger.Info("created field",
		zap.Int64("table_id", table.ID),
		zap.Int64("field_id", field.ID),
		zap.String("type", field.Type))
	return field, nil
}

func (s *Store) createFieldStorage(ctx context.Context, tx pgx.Tx, table models.Table, field models.Field, fieldType fields.Type) error {
	if fieldType.Kind == fields.KindRelation {
		ddl := fmt.Sprintf(`CREATE TABLE %s (
			row_id bigint NOT NULL,
			related_row_id bigint NOT NULL,
			PRIMARY KEY (row_id, related_row_id)
		)`, field.RelationTableName())
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return errors.Wrapf(err, "failed to create %s", field.RelationTableName())
		}
		return nil
	}
	if ddl := fieldType.ColumnDDL(field); ddl != "" {
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			table.DatabaseTableName(), field.ColumnName(), ddl)
		if _, err := tx.Exec(ctx, alter); err != nil {
			return errors.Wrapf(err, "failed to add column %s", field.ColumnName())
		}
	}
	return nil
}

func (s *Store) dropFieldStorage(ctx context.Context, tx pgx.Tx, table models.Table, field models.Field, fieldType fields.Type) error {
	if fieldType.Kind == fields.KindRelation {
		drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", field.RelationTableName())
		if _, err := tx.Exec(ctx, drop); err != nil {
			return errors.Wrapf(err, "failed to drop %s", field.RelationTableName())
		}
		return nil
	}
	if fieldType.ColumnDDL(field) != "" {
		alter := fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s",
			table.DatabaseTableName(), field.ColumnName())
		if _, err := tx.Exec(ctx, alter); err != nil {
			return errors.Wrapf(err, "failed to drop column %s", field.ColumnName())
		}
	}
	return nil
}

func (s *Store) GetField(ctx context.Context, id int64) (models.Field, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, table_id, name, type, "order", "primary", config
		FROM database_field WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.Field{}, errors.Wrapf(ErrFieldNotFound, "field %d", id)
		}
		return models.Field{}, err
	}
	return scanField(row)
}

// ListFields returns the table's fields, primary field first.
func (s *Store) ListFields(ctx context.Context, tableID int64) ([]models.Field, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, name, type, "order", "primary", config
		FROM database_field WHERE table_id = $1
		ORDER BY "primary" DESC, "order", id`, tableID)
	if err != nil {
		return nil, err
	}
	list := make([]models.Field, 0, len(rows))
	for _, row := range rows {
		field, err := scanField(row)
		if err != nil {
			return nil, err
		}
		list = append(list, field)
	}
	return list, nil
}

// UpdateField writes the field's name and config. Changing the type is
// handled by ChangeFieldType since it rewrites the backing storage.
func (s *Store) UpdateField(ctx context.Context, field models.Field) error {
	config, err := json.Marshal(field.Config)
	if err != nil {
		return errors.Wrap(err, "failed to encode field config")
	}
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_field SET name = $1, config = $2, updated_on = now()
		WHERE id = $3`, field.Name, config, field.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrFieldNotFound, "field %d", field.ID)
	}
	return nil
}

// ChangeFieldType converts a field to a new type by replacing its
// backing storage. The column restarts empty; values are not converted
// between types.
func (s *Store) ChangeFieldType(ctx context.Context, field models.Field, newType string, newConfig models.FieldConfig) (models.Field, error) {
	oldType, err := s.fieldTypes.Get(field.Type)
	if err != nil {
		return models.Field{}, err
	}
	fieldType, err := s.fieldTypes.Get(newType)
	if err != nil {
		return models.Field{}, err
	}
	table, err := s.GetTable(ctx, field.TableID)
	if err != nil {
		return models.Field{}, err
	}
	config, err := json.Marshal(newConfig)
	if err != nil {
		return models.Field{}, errors.Wrap(err, "failed to encode field config")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Field{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE database_field SET type = $1, config = $2, updated_on = now()
		WHERE id = $3`, newType, config, field.ID); err != nil {
		return models.Field{}, errors.Wrap(err, "failed to update field")
	}
	if err := s.dropFieldStorage(ctx, tx, table, field, oldType); err != nil {
		return models.Field{}, err
	}
	field.Type = newType
	field.Config = newConfig
	if err := s.createFieldStorage(ctx, tx, table, field, fieldType); err != nil {
		return models.Field{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Field{}, errors.Wrap(err, "failed to commit field type change")
	}
	s.logger.Info("changed field type",
		zap.Int64("field_id", field.ID),
		zap.String("type", newType))
	return field, nil
}

func (s *Store) DeleteField(ctx context.Context, id int64) error {
	field, err := s.GetField(ctx, id)
	if err != nil {
		return err
	}
	if field.Primary {
		return errors.Newf("cannot delete primary field %d", id)
	}
	fieldType, err := s.fieldTypes.Get(field.Type)
	if err != nil {
		return err
	}
	table, err := s.GetTable(ctx, field.TableID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.dropFieldStorage(ctx, tx, table, field, fieldType); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM database_field WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "failed to delete field")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit field deletion")
	}
	s.logger.Info("deleted field", zap.Int64("field_id", id))
	return nil
}

func (s *Store) CreateSelectOption(ctx context.Context, fieldID int64, value, color string) (models.SelectOption, error) {
	option := models.SelectOption{FieldID: fieldID, Value: value, Color: color}
	row, err := s.pool.QueryRow(ctx, `
		INSERT INTO database_select_option (field_id, value, color, "order")
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX("order"), 0) + 1 FROM database_select_option WHERE field_id = $1))
		RETURNING id, "order"`, fieldID, value, color)
	if err != nil {
		return models.SelectOption{}, errors.Wrap(err, "failed to insert select option")
	}
	option.ID = scanInt64(row["id"])
	option.Order = scanInt(row["order"])
	return option, nil
}

func (s *Store) GetSelectOption(ctx context.Context, id int64) (models.SelectOption, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, field_id, value, color, "order"
		FROM database_select_option WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.SelectOption{}, errors.Wrapf(ErrSelectOptionNotFound, "option %d", id)
		}
		return models.SelectOption{}, err
	}
	return scanSelectOption(row), nil
}

func (s *Store) ListSelectOptions(ctx context.Context, fieldID int64) ([]models.SelectOption, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, field_id, value, color, "order"
		FROM database_select_option WHERE field_id = $1
		ORDER BY "order", id`, fieldID)
	if err != nil {
		return nil, err
	}
	options := make([]models.SelectOption, 0, len(rows))
	for _, row := range rows {
		options = append(options, scanSelectOption(row))
	}
	return options, nil
}

func (s *Store) UpdateSelectOption(ctx context.Context, option models.SelectOption) error {
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_select_option SET value = $1, color = $2
		WHERE id = $3`, option.Value, option.Color, option.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrSelectOptionNotFound, "option %d", option.ID)
	}
	return nil
}

func (s *Store) DeleteSelectOption(ctx context.Context, id int64) error {
	affected, err := s.pool.Execute(ctx, `
		DELETE FROM database_select_option WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrSelectOptionNotFound, "option %d", id)
	}
	return nil
}
