package catalog

// Kind says which table a selection points into.
type Kind string

const (
	KindBook   Kind = "book"
	KindReader Kind = "reader"
)

// Selection is an immutable reference to the catalog entity a context-menu
// action targets. Actions take it by value: a snapshot captured when the
// action starts, so a later selection change cannot retarget an in-flight
// operation.
type Selection struct {
	ID          int64
	Kind        Kind
	DisplayName string
}

// SelectionContext is the single slot the context menu writes into. The whole
// client runs on one update loop, so no locking; the rule is that actions read
// it exactly once, at their start.
type SelectionContext struct {
	current Selection
	set     bool
}

// Select stores the reference, replacing any prior value.
func (s *SelectionContext) Select(sel Selection) {
	s.current = sel
	s.set = true
}

// Current returns the selected entity, if any.
func (s *SelectionContext) Current() (Selection, bool) {
	return s.current, s.set
}

// Clear resets to no selection.
func (s *SelectionContext) Clear() {
	s.current = Selection{}
	s.set = false
}
