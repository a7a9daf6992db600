package domain

// Selection is an ordered set of criterion names chosen from one catalog.
// It is a value type: Toggle returns a new Selection and never mutates the
// receiver. Names keep the order in which they were first selected.
type Selection struct {
	names []string
}

// NewSelection builds a selection from names, collapsing duplicates to their
// first occurrence.
func NewSelection(names ...string) Selection {
	s := Selection{names: make([]string, 0, len(names))}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Names returns a copy of the selected names in selection order.
func (s Selection) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of selected criteria.
func (s Selection) Len() int {
	return len(s.names)
}

// Contains reports whether name is selected.
func (s Selection) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Toggle deselects name if it is selected, otherwise appends it.
func (s Selection) Toggle(name string) Selection {
	out := Selection{names: make([]string, 0, len(s.names)+1)}
	removed := false
	for _, n := range s.names {
		if n == name {
			removed = true
			continue
		}
		out.names = append(out.names, n)
	}
	if !removed {
		out.names = append(out.names, name)
	}
	return out
}

// EvaluationInput is the complete, immutable input of one evaluation cycle.
type EvaluationInput struct {
	Nephritis   bool
	Serology    bool
	Clinical    Selection
	Immunologic Selection
}

// NewEvaluationInput builds an input from raw toggle values.
func NewEvaluationInput(nephritis, serology bool, clinical, immunologic []string) *EvaluationInput {
	return &EvaluationInput{
		Nephritis:   nephritis,
		Serology:    serology,
		Clinical:    NewSelection(clinical...),
		Immunologic: NewSelection(immunologic...),
	}
}

// ClinicalCount returns the number of selected clinical criteria.
func (in *EvaluationInput) ClinicalCount() int {
	return in.Clinical.Len()
}

// ImmunologicCount returns the number of selected immunologic criteria.
func (in *EvaluationInput) ImmunologicCount() int {
	return in.Immunologic.Len()
}

// TotalCount is always ClinicalCount + ImmunologicCount.
func (in *EvaluationInput) TotalCount() int {
	return in.ClinicalCount() + in.ImmunologicCount()
}

// Toggle returns a copy of the input with name toggled in the given group.
func (in *EvaluationInput) Toggle(group CriterionGroup, name string) (*EvaluationInput, error) {
	next := *in
	switch group {
	case CLINICAL:
		next.Clinical = in.Clinical.Toggle(name)
	case IMMUNOLOGIC:
		next.Immunologic = in.Immunologic.Toggle(name)
	default:
		return nil, ErrInvalidGroup
	}
	return &next, nil
}

// ToggleFlag returns a copy of the input with the given flag flipped.
func (in *EvaluationInput) ToggleFlag(flag Flag) (*EvaluationInput, error) {
	switch flag {
	case NEPHRITIS:
		return in.WithNephritis(!in.Nephritis), nil
	case SEROLOGY:
		return in.WithSerology(!in.Serology), nil
	default:
		return nil, ErrInvalidFlag
	}
}

// WithNephritis returns a copy of the input with the biopsy flag set.
func (in *EvaluationInput) WithNephritis(v bool) *EvaluationInput {
	next := *in
	next.Nephritis = v
	return &next
}

// WithSerology returns a copy of the input with the ANA/anti-dsDNA flag set.
func (in *EvaluationInput) WithSerology(v bool) *EvaluationInput {
	next := *in
	next.Serology = v
	return &next
}
