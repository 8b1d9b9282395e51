package filter

// Mode is the boolean connective joining the members of a group
type Mode string

const (
	ModeAnd Mode = "AND"
	ModeOr  Mode = "OR"
)

// Group combines sibling fragments and nested groups under one
// connective. Groups nest arbitrarily deep; an empty Mode means AND.
type Group struct {
	Mode      Mode
	Fragments []Fragment
	Groups    []Group
}

// Build folds the group into a single fragment. A group with no
// active members matches every row, whatever its mode: disabled
// members drop out of the combination, and an entirely inactive group
// collapses to the disabled fragment.
func (g Group) Build() Fragment {
	parts := make([]Fragment, 0, len(g.Fragments)+len(g.Groups))
	parts = append(parts, g.Fragments...)
	for _, sub := range g.Groups {
		parts = append(parts, sub.Build())
	}
	if len(parts) == 0 {
		return Disabled()
	}

	mode := g.Mode
	if mode == "" {
		mode = ModeAnd
	}

	out := parts[0]
	for _, p := range parts[1:] {
		if mode == ModeOr {
			out = out.Or(p)
		} else {
			out = out.And(p)
		}
	}
	return out
}
