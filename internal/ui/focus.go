package ui

// FocusManager tracks and rotates focus across the fields of a form.
type FocusManager struct {
	Current  string   // ID of the focused field
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// Next advances focus to the next field in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.index()
	f.move((idx + 1) % len(f.Order))
	return f.Current
}

// Prev moves focus to the previous field in order.
func (f *FocusManager) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.index() - 1
	if idx < 0 {
		idx = len(f.Order) - 1
	}
	f.move(idx)
	return f.Current
}

// SetFocus sets focus to the given field ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	for i, o := range f.Order {
		if o == id {
			f.move(i)
			return true
		}
	}
	return false
}

// SetOrder replaces the tab order after fields were added or removed. Focus
// stays on the current field when it still exists, otherwise it lands on
// the field now at the old position.
func (f *FocusManager) SetOrder(order []string) {
	old := f.index()
	f.Order = order
	if len(order) == 0 {
		f.Current = ""
		return
	}
	if f.index() >= 0 {
		return
	}
	if old < 0 {
		old = 0
	}
	if old >= len(order) {
		old = len(order) - 1
	}
	f.move(old)
}

func (f *FocusManager) index() int {
	for i, id := range f.Order {
		if id == f.Current {
			return i
		}
	}
	return -1
}

func (f *FocusManager) move(i int) {
	from := f.Current
	f.Current = f.Order[i]
	if f.OnChange != nil && from != f.Current {
		f.OnChange(from, f.Current)
	}
}
