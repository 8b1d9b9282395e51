package filter

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrFilterTypeNotFound is returned when an operator name has no
// registered transformer.
var ErrFilterTypeNotFound = errors.New("view filter type not found")

// ErrFieldTypeIncompatible is returned when an operator is applied to
// a field whose type is not in the operator's compatible set. The
// view layer validates pairings before storing a filter, so hitting
// this during evaluation means a stale or hand-built filter.
var ErrFieldTypeIncompatible = errors.New("filter type not compatible with field type")

// Registry maps filter operator names to their transformer. It is
// populated once at startup and read-only afterwards, so lookups need
// no locking. Components receive the registry by reference instead of
// going through package state.
type Registry struct {
	transformers map[string]Transformer
}

// NewRegistry creates an empty filter registry
func NewRegistry() *Registry {
	return &Registry{transformers: make(map[string]Transformer)}
}

// NewDefaultRegistry returns a registry with every built-in filter
// transformer. The negated variants wrap their base transformer, so
// both sides of a pair always stay in lockstep.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Transformer{
		equalFilter{},
		Not(TypeNotEqual, equalFilter{}),
		containsFilter{},
		Not(TypeContainsNot, containsFilter{}),
		filenameContainsFilter{},
		higherThanFilter{},
		lowerThanFilter{},
		dateEqualFilter{},
		Not(TypeDateNotEqual, dateEqualFilter{}),
		singleSelectEqualFilter{},
		Not(TypeSingleSelectNotEqual, singleSelectEqualFilter{}),
		booleanFilter{},
		emptyFilter{},
		Not(TypeNotEmpty, emptyFilter{}),
	} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a transformer to the registry
func (r *Registry) Register(t Transformer) error {
	name := t.Type()
	if name == "" {
		return errors.New("filter type name cannot be empty")
	}
	if _, ok := r.transformers[name]; ok {
		return errors.Newf("filter type %q already registered", name)
	}
	r.transformers[name] = t
	return nil
}

// Lookup returns the transformer registered under the operator name
func (r *Registry) Lookup(name string) (Transformer, error) {
	t, ok := r.transformers[name]
	if !ok {
		return nil, errors.Wrapf(ErrFilterTypeNotFound, "%q", name)
	}
	return t, nil
}

// Evaluate resolves the operator and applies it to the column. The
// compatibility of operator and field type is re-checked here so an
// invalid pairing can never emit a nonsensical fragment.
func (r *Registry) Evaluate(col Column, operator, value string) (Fragment, error) {
	t, err := r.Lookup(operator)
	if err != nil {
		return Fragment{}, err
	}
	if !isCompatible(t, col.Field.Type) {
		return Fragment{}, errors.Wrapf(ErrFieldTypeIncompatible,
			"%q cannot filter a %q field", operator, col.Field.Type)
	}
	return t.Apply(col, value), nil
}

// All returns every registered transformer sorted by operator name
func (r *Registry) All() []Transformer {
	out := make([]Transformer, 0, len(r.transformers))
	for _, t := range r.transformers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}
