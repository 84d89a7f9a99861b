package ui

// FocusManager tracks which control has focus and rotates it in tab order.
// OnChange runs after every effective move; the form uses it to end any
// gesture the control losing focus had open.
type FocusManager struct {
	Current  string   // ID of the focused control
	Order    []string // Tab order
	OnChange func(from, to string)
}

// Next moves focus forward, wrapping at the end. Returns the new focus.
func (f *FocusManager) Next() string { return f.move(1) }

// Prev moves focus backward, wrapping at the start.
func (f *FocusManager) Prev() string { return f.move(-1) }

// Index returns the position of the focused control in Order, or -1.
func (f *FocusManager) Index() int {
	for i, id := range f.Order {
		if id == f.Current {
			return i
		}
	}
	return -1
}

func (f *FocusManager) move(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.Index()
	if idx < 0 && delta < 0 {
		idx = 0
	}
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus focuses id. Returns false if id is not in Order.
func (f *FocusManager) SetFocus(id string) bool {
	for _, o := range f.Order {
		if o == id {
			f.set(id)
			return true
		}
	}
	return false
}

func (f *FocusManager) set(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
