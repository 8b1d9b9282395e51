package views

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/models"
	"github.com/zarybnicky/baserow/internal/store"
)

// Handler validates and persists view filters and sorts and turns them
// into query clauses. The clause builders (ApplyFilters, ApplySorting)
// only read their arguments, so they work without a store.
type Handler struct {
	store      *store.Store
	viewTypes  *TypeRegistry
	filters    *filter.Registry
	fieldTypes *fields.Registry
	logger     *zap.Logger
}

func NewHandler(st *store.Store, filters *filter.Registry, fieldTypes *fields.Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:      st,
		viewTypes:  NewDefaultTypeRegistry(),
		filters:    filters,
		fieldTypes: fieldTypes,
		logger:     logger,
	}
}

// checkFilter validates that the view can carry filters and that the
// filter type applies to the field.
func (h *Handler) checkFilter(view models.View, field models.Field, filterType string) error {
	viewType, err := h.viewTypes.Get(view.Type)
	if err != nil {
		return err
	}
	if !viewType.CanFilter {
		return errors.Wrapf(ErrViewFilterNotSupported, "view %d is a %s view", view.ID, view.Type)
	}
	if field.TableID != view.TableID {
		return errors.Wrapf(ErrFieldNotInTable, "field %d, table %d", field.ID, view.TableID)
	}
	transformer, err := h.filters.Lookup(filterType)
	if err != nil {
		return err
	}
	if !h.filterSupportsField(transformer, field) {
		return errors.Wrapf(ErrFilterNotSupportedForField,
			"%q cannot filter a %q field", filterType, field.Type)
	}
	return nil
}

func (h *Handler) filterSupportsField(t filter.Transformer, field models.Field) bool {
	for _, tag := range t.CompatibleFieldTypes() {
		if tag == field.Type {
			return true
		}
	}
	return false
}

func (h *Handler) CreateFilter(ctx context.Context, viewID, fieldID int64, filterType, value string) (models.ViewFilter, error) {
	view, err := h.store.GetView(ctx, viewID)
	if err != nil {
		return models.ViewFilter{}, err
	}
	field, err := h.store.GetField(ctx, fieldID)
	if err != nil {
		return models.ViewFilter{}, err
	}
	if err := h.checkFilter(view, field, filterType); err != nil {
		return models.ViewFilter{}, err
	}
	return h.store.CreateViewFilter(ctx, models.ViewFilter{
		ViewID:  viewID,
		FieldID: fieldID,
		Type:    filterType,
		Value:   value,
	})
}

// UpdateFilter rewrites an existing filter. The field and type may
// both change, so the combination is validated again.
func (h *Handler) UpdateFilter(ctx context.Context, filterID, fieldID int64, filterType, value string) (models.ViewFilter, error) {
	viewFilter, err := h.store.GetViewFilter(ctx, filterID)
	if err != nil {
		return models.ViewFilter{}, err
	}
	view, err := h.store.GetView(ctx, viewFilter.ViewID)
	if err != nil {
		return models.ViewFilter{}, err
	}
	field, err := h.store.GetField(ctx, fieldID)
	if err != nil {
		return models.ViewFilter{}, err
	}
	if err := h.checkFilter(view, field, filterType); err != nil {
		return models.ViewFilter{}, err
	}
	viewFilter.FieldID = fieldID
	viewFilter.Type = filterType
	viewFilter.Value = value
	if err := h.store.UpdateViewFilter(ctx, viewFilter); err != nil {
		return models.ViewFilter{}, err
	}
	return viewFilter, nil
}

func (h *Handler) DeleteFilter(ctx context.Context, filterID int64) error {
	return h.store.DeleteViewFilter(ctx, filterID)
}

// checkSort validates that the view can be sorted, the field belongs
// to it and the field type has an ordering.
func (h *Handler) checkSort(view models.View, field models.Field) error {
	viewType, err := h.viewTypes.Get(view.Type)
	if err != nil {
		return err
	}
	if !viewType.CanSort {
		return errors.Wrapf(ErrViewSortNotSupported, "view %d is a %s view", view.ID, view.Type)
	}
	if field.TableID != view.TableID {
		return errors.Wrapf(ErrFieldNotInTable, "field %d, table %d", field.ID, view.TableID)
	}
	fieldType, err := h.fieldTypes.Get(field.Type)
	if err != nil {
		return err
	}
	if !fieldType.CanOrderBy {
		return errors.Wrapf(ErrSortFieldNotSupported, "%q fields have no ordering", field.Type)
	}
	return nil
}

func (h *Handler) CreateSort(ctx context.Context, viewID, fieldID int64, order models.SortOrder) (models.ViewSort, error) {
	view, err := h.store.GetView(ctx, viewID)
	if err != nil {
		return models.ViewSort{}, err
	}
	field, err := h.store.GetField(ctx, fieldID)
	if err != nil {
		return models.ViewSort{}, err
	}
	if err := h.checkSort(view, field); err != nil {
		return models.ViewSort{}, err
	}
	existing, err := h.store.ListViewSorts(ctx, viewID)
	if err != nil {
		return models.ViewSort{}, err
	}
	for _, sort := range existing {
		if sort.FieldID == fieldID {
			return models.ViewSort{}, errors.Wrapf(ErrSortFieldExists, "field %d", fieldID)
		}
	}
	return h.store.CreateViewSort(ctx, models.ViewSort{
		ViewID:  viewID,
		FieldID: fieldID,
		Order:   order,
	})
}

func (h *Handler) UpdateSort(ctx context.Context, sortID, fieldID int64, order models.SortOrder) (models.ViewSort, error) {
	viewSort, err := h.store.GetViewSort(ctx, sortID)
	if err != nil {
		return models.ViewSort{}, err
	}
	view, err := h.store.GetView(ctx, viewSort.ViewID)
	if err != nil {
		return models.ViewSort{}, err
	}
	field, err := h.store.GetField(ctx, fieldID)
	if err != nil {
		return models.ViewSort{}, err
	}
	if err := h.checkSort(view, field); err != nil {
		return models.ViewSort{}, err
	}
	existing, err := h.store.ListViewSorts(ctx, viewSort.ViewID)
	if err != nil {
		return models.ViewSort{}, err
	}
	for _, sort := range existing {
		if sort.FieldID == fieldID && sort.ID != sortID {
			return models.ViewSort{}, errors.Wrapf(ErrSortFieldExists, "field %d", fieldID)
		}
	}
	viewSort.FieldID = fieldID
	viewSort.Order = order
	if err := h.store.UpdateViewSort(ctx, viewSort); err != nil {
		return models.ViewSort{}, err
	}
	return viewSort, nil
}

func (h *Handler) DeleteSort(ctx context.Context, sortID int64) error {
	return h.store.DeleteViewSort(ctx, sortID)
}

// ApplyFilters combines the view's filters into a single predicate
// over the table's generated columns. A view with filters disabled
// yields the disabled fragment, which renders as TRUE.
func (h *Handler) ApplyFilters(table models.Table, view models.View, viewFilters []models.ViewFilter, tableFields []models.Field) (filter.Fragment, error) {
	viewType, err := h.viewTypes.Get(view.Type)
	if err != nil {
		return filter.Fragment{}, err
	}
	if !viewType.CanFilter {
		return filter.Fragment{}, errors.Wrapf(ErrViewFilterNotSupported, "view %d is a %s view", view.ID, view.Type)
	}
	if view.FiltersDisabled {
		return filter.Disabled(), nil
	}

	byID := make(map[int64]models.Field, len(tableFields))
	for _, field := range tableFields {
		byID[field.ID] = field
	}

	group := filter.Group{Mode: filter.ModeAnd}
	if view.FilterMode == models.FilterModeOR {
		group.Mode = filter.ModeOr
	}
	for _, viewFilter := range viewFilters {
		field, ok := byID[viewFilter.FieldID]
		if !ok {
			return filter.Fragment{}, errors.Wrapf(ErrFieldNotInTable, "field %d", viewFilter.FieldID)
		}
		fieldType, err := h.fieldTypes.Get(field.Type)
		if err != nil {
			return filter.Fragment{}, err
		}
		column := filter.NewColumn(table, field, fieldType)
		fragment, err := h.filters.Evaluate(column, viewFilter.Type, viewFilter.Value)
		if err != nil {
			return filter.Fragment{}, err
		}
		group.Fragments = append(group.Fragments, fragment)
	}
	return group.Build(), nil
}

// ApplySorting renders the view's sorts as the body of an ORDER BY
// clause. Ascending sorts put empty values first, descending sorts put
// them last, and the row order and id always break remaining ties.
func (h *Handler) ApplySorting(table models.Table, view models.View, viewSorts []models.ViewSort, tableFields []models.Field) (string, error) {
	viewType, err := h.viewTypes.Get(view.Type)
	if err != nil {
		return "", err
	}
	if !viewType.CanSort {
		return "", errors.Wrapf(ErrViewSortNotSupported, "view %d is a %s view", view.ID, view.Type)
	}

	byID := make(map[int64]models.Field, len(tableFields))
	for _, field := range tableFields {
		byID[field.ID] = field
	}

	var parts []string
	for _, viewSort := range viewSorts {
		field, ok := byID[viewSort.FieldID]
		if !ok {
			return "", errors.Wrapf(ErrFieldNotInTable, "field %d", viewSort.FieldID)
		}
		fieldType, err := h.fieldTypes.Get(field.Type)
		if err != nil {
			return "", err
		}
		if !fieldType.CanOrderBy {
			return "", errors.Wrapf(ErrSortFieldNotSupported, "%q fields have no ordering", field.Type)
		}
		expr := field.ColumnName()
		if fieldType.OrderExpr != nil {
			expr = fieldType.OrderExpr(field, table)
		}
		if viewSort.Order == models.SortOrderDesc {
			parts = append(parts, expr+" DESC NULLS LAST")
		} else {
			parts = append(parts, expr+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, `"order"`, "id")
	return strings.Join(parts, ", "), nil
}

// FieldUpdated reconciles view configuration after a field changed
// type: filters that no longer apply to the new type are deleted, and
// sorts are dropped when the new type has no ordering.
func (h *Handler) FieldUpdated(ctx context.Context, field models.Field) error {
	fieldType, err := h.fieldTypes.Get(field.Type)
	if err != nil {
		return err
	}

	fieldFilters, err := h.store.ListFieldFilters(ctx, field.ID)
	if err != nil {
		return err
	}
	for _, viewFilter := range fieldFilters {
		transformer, err := h.filters.Lookup(viewFilter.Type)
		if err == nil && h.filterSupportsField(transformer, field) {
			continue
		}
		if err := h.store.DeleteViewFilter(ctx, viewFilter.ID); err != nil {
			return err
		}
		h.logger.Info("deleted incompatible view filter",
			zap.Int64("filter_id", viewFilter.ID),
			zap.Int64("field_id", field.ID),
			zap.String("filter_type", viewFilter.Type),
			zap.String("field_type", field.Type))
	}

	if !fieldType.CanOrderBy {
		if err := h.store.DeleteFieldSorts(ctx, field.ID); err != nil {
			return err
		}
		h.logger.Info("deleted view sorts for unsortable field",
			zap.Int64("field_id", field.ID),
			zap.String("field_type", field.Type))
	}
	return nil
}
