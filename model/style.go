package model

// StyleID identifies an interned Style within a StyleTable.
type StyleID int

// Style is everything that has to be equal for two pieces of text to belong to
// the same run.
type Style struct {
	Font   Font
	Stroke Color
	Fill   Color
}

// StyleTable interns styles so that style equality is an integer comparison.
// Fonts are keyed by identity. A StyleTable is not safe for concurrent use.
type StyleTable struct {
	ids    map[Style]StyleID
	styles []Style
}

// NewStyleTable creates an empty table.
func NewStyleTable() *StyleTable {
	return &StyleTable{
		ids: make(map[Style]StyleID),
	}
}

// Intern returns the id of s, allocating a new one the first time s is seen.
func (t *StyleTable) Intern(s Style) StyleID {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := StyleID(len(t.styles))
	t.ids[s] = id
	t.styles = append(t.styles, s)
	return id
}

// Lookup returns the style for id and whether it exists.
func (t *StyleTable) Lookup(id StyleID) (Style, bool) {
	if id < 0 || int(id) >= len(t.styles) {
		return Style{}, false
	}
	return t.styles[id], true
}

// Len returns the number of distinct styles seen so far.
func (t *StyleTable) Len() int {
	return len(t.styles)
}
