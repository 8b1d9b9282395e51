package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/models"
)

func (s *Store) CreateView(ctx context.Context, view models.View) (models.View, error) {
	if view.FilterMode == "" {
		view.FilterMode = models.FilterModeAND
	}
	row, err := s.pool.QueryRow(ctx, `
		INSERT INTO database_view (table_id, name, type, "order", filter_type, filters_disabled)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX("order"), 0) + 1 FROM database_view WHERE table_id = $1),
			$4, $5)
		RETURNING id, "order", created_on, updated_on`,
		view.TableID, view.Name, view.Type, string(view.FilterMode), view.FiltersDisabled)
	if err != nil {
		return models.View{}, errors.Wrap(err, "failed to insert view")
	}
	view.ID = scanInt64(row["id"])
	view.Order = scanInt(row["order"])
	view.CreatedOn = scanTime(row["created_on"])
	view.UpdatedOn = scanTime(row["updated_on"])
	s.logger.Info("created view",
		zap.Int64("table_id", view.TableID),
		zap.Int64("view_id", view.ID))
	return view, nil
}

func (s *Store) GetView(ctx context.Context, id int64) (models.View, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, table_id, name, type, "order", filter_type, filters_disabled, created_on, updated_on
		FROM database_view WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.View{}, errors.Wrapf(ErrViewNotFound, "view %d", id)
		}
		return models.View{}, err
	}
	return scanView(row), nil
}

func (s *Store) ListViews(ctx context.Context, tableID int64) ([]models.View, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, name, type, "order", filter_type, filters_disabled, created_on, updated_on
		FROM database_view WHERE table_id = $1
		ORDER BY "order", id`, tableID)
	if err != nil {
		return nil, err
	}
	views := make([]models.View, 0, len(rows))
	for _, row := range rows {
		views = append(views, scanView(row))
	}
	return views, nil
}

func (s *Store) UpdateView(ctx context.Context, view models.View) error {
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_view
		SET name = $1, filter_type = $2, filters_disabled = $3, updated_on = now()
		WHERE id = $4`,
		view.Name, string(view.FilterMode), view.FiltersDisabled, view.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewNotFound, "view %d", view.ID)
	}
	return nil
}

func (s *Store) DeleteView(ctx context.Context, id int64) error {
	affected, err := s.pool.Execute(ctx, `DELETE FROM database_view WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewNotFound, "view %d", id)
	}
	s.logger.Info("deleted view", zap.Int64("view_id", id))
	return nil
}

func (s *Store) CreateViewFilter(ctx context.Context, filter models.ViewFilter) (models.ViewFilter, error) {
	row, err := s.pool.QueryRow(ctx, `
		INSERT INTO database_view_filter (view_id, field_id, type, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		filter.ViewID, filter.FieldID, filter.Type, filter.Value)
	if err != nil {
		return models.ViewFilter{}, errors.Wrap(err, "failed to insert view filter")
	}
	filter.ID = scanInt64(row["id"])
	return filter, nil
}

func (s *Store) GetViewFilter(ctx context.Context, id int64) (models.ViewFilter, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, view_id, field_id, type, value
		FROM database_view_filter WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.ViewFilter{}, errors.Wrapf(ErrViewFilterNotFound, "view filter %d", id)
		}
		return models.ViewFilter{}, err
	}
	return scanViewFilter(row), nil
}

func (s *Store) ListViewFilters(ctx context.Context, viewID int64) ([]models.ViewFilter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, view_id, field_id, type, value
		FROM database_view_filter WHERE view_id = $1
		ORDER BY id`, viewID)
	if err != nil {
		return nil, err
	}
	filters := make([]models.ViewFilter, 0, len(rows))
	for _, row := range rows {
		filters = append(filters, scanViewFilter(row))
	}
	return filters, nil
}

func (s *Store) UpdateViewFilter(ctx context.Context, filter models.ViewFilter) error {
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_view_filter SET field_id = $1, type = $2, value = $3
		WHERE id = $4`,
		filter.FieldID, filter.Type, filter.Value, filter.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewFilterNotFound, "view filter %d", filter.ID)
	}
	return nil
}

func (s *Store) DeleteViewFilter(ctx context.Context, id int64) error {
	affected, err := s.pool.Execute(ctx, `DELETE FROM database_view_filter WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewFilterNotFound, "view filter %d", id)
	}
	return nil
}

// ListFieldFilters returns every filter referencing the field across
// all views, used to weed out incompatible filters after a type change.
func (s *Store) ListFieldFilters(ctx context.Context, fieldID int64) ([]models.ViewFilter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, view_id, field_id, type, value
		FROM database_view_filter WHERE field_id = $1
		ORDER BY id`, fieldID)
	if err != nil {
		return nil, err
	}
	filters := make([]models.ViewFilter, 0, len(rows))
	for _, row := range rows {
		filters = append(filters, scanViewFilter(row))
	}
	return filters, nil
}

func (s *Store) CreateViewSort(ctx context.Context, sort models.ViewSort) (models.ViewSort, error) {
	if sort.Order == "" {
		sort.Order = models.SortOrderAsc
	}
	row, err := s.pool.QueryRow(ctx, `
		INSERT INTO database_view_sort (view_id, field_id, "order")
		VALUES ($1, $2, $3)
		RETURNING id`,
		sort.ViewID, sort.FieldID, string(sort.Order))
	if err != nil {
		return models.ViewSort{}, errors.Wrap(err, "failed to insert view sort")
	}
	sort.ID = scanInt64(row["id"])
	return sort, nil
}

func (s *Store) GetViewSort(ctx context.Context, id int64) (models.ViewSort, error) {
	row, err := s.pool.QueryRow(ctx, `
		SELECT id, view_id, field_id, "order"
		FROM database_view_sort WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return models.ViewSort{}, errors.Wrapf(ErrViewSortNotFound, "view sort %d", id)
		}
		return models.ViewSort{}, err
	}
	return scanViewSort(row), nil
}

func (s *Store) ListViewSorts(ctx context.Context, viewID int64) ([]models.ViewSort, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, view_id, field_id, "order"
		FROM database_view_sort WHERE view_id = $1
		ORDER BY id`, viewID)
	if err != nil {
		return nil, err
	}
	sorts := make([]models.ViewSort, 0, len(rows))
	for _, row := range rows {
		sorts = append(sorts, scanViewSort(row))
	}
	return sorts, nil
}

func (s *Store) UpdateViewSort(ctx context.Context, sort models.ViewSort) error {
	affected, err := s.pool.Execute(ctx, `
		UPDATE database_view_sort SET field_id = $1, "order" = $2
		WHERE id = $3`,
		sort.FieldID, string(sort.Order), sort.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewSortNotFound, "view sort %d", sort.ID)
	}
	return nil
}

func (s *Store) DeleteViewSort(ctx context.Context, id int64) error {
	affected, err := s.pool.Execute(ctx, `DELETE FROM database_view_sort WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrViewSortNotFound, "view sort %d", id)
	}
	return nil
}

// DeleteFieldSorts removes every sort referencing the field.
func (s *Store) DeleteFieldSorts(ctx context.Context, fieldID int64) error {
	_, err := s.pool.Execute(ctx, `
		DELETE FROM database_view_sort WHERE field_id = $1`, fieldID)
	return err
}
