package filter

// notTransformer wraps a base transformer with its logical
// complement. It shares the base's compatible field types and derives
// its fragment by inverting the base's. Inversion covers the degraded
// cases too: a value the base rejects produces match-everything,
// which inverts to match-nothing.
type notTransformer struct {
	name string
	base Transformer
}

// Not returns a transformer producing the logical complement of base,
// registered under name
func Not(name string, base Transformer) Transformer {
	return notTransformer{name: name, base: base}
}

func (t notTransformer) Type() string {
	return t.name
}

func (t notTransformer) CompatibleFieldTypes() []string {
	return t.base.CompatibleFieldTypes()
}

func (t notTransformer) Apply(col Column, value string) Fragment {
	return t.base.Apply(col, value).Not()
}
