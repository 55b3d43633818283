// Package listmodel holds selectable list contents for the UI and the guard
// that repopulates them without firing selection listeners.
//
// A Model is not safe for concurrent use; all calls belong on the UI thread.
package listmodel

// SelectionEvent describes the selection after a change. Index is -1 and
// Item the zero value when nothing is selected.
type SelectionEvent[T any] struct {
	Index int
	Item  T
}

func (e SelectionEvent[T]) Selected() bool {
	return e.Index >= 0
}

// Listener is compared by pointer, so the same handler can be removed and
// re-added.
type Listener[T any] struct {
	name string
	fn   func(SelectionEvent[T])
}

func NewListener[T any](name string, fn func(SelectionEvent[T])) *Listener[T] {
	return &Listener[T]{name: name, fn: fn}
}

func (l *Listener[T]) Name() string {
	return l.name
}

type Model[T any] struct {
	items     []T
	selected  int
	listeners []*Listener[T]
	onChange  func()
}

func New[T any]() *Model[T] {
	return &Model[T]{selected: -1}
}

// OnContentsChanged registers a redraw hook. It is not a selection listener
// and is never detached by Protect.
func (m *Model[T]) OnContentsChanged(fn func()) {
	m.onChange = fn
}

// Items returns a copy of the contents in display order.
func (m *Model[T]) Items() []T {
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Model[T]) Len() int {
	return len(m.items)
}

func (m *Model[T]) Item(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(m.items) {
		return zero, false
	}
	return m.items[i], true
}

func (m *Model[T]) Selected() (int, T, bool) {
	var zero T
	if m.selected < 0 {
		return -1, zero, false
	}
	return m.selected, m.items[m.selected], true
}

// Select marks index i and notifies listeners. Out of range indices are ignored.
func (m *Model[T]) Select(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	m.selected = i
	m.fire()
}

// ClearSelection drops the selection, notifying listeners if there was one.
func (m *Model[T]) ClearSelection() {
	if m.selected < 0 {
		return
	}
	m.selected = -1
	m.fire()
}

// Clear removes every item. Losing a selection notifies listeners.
func (m *Model[T]) Clear() {
	hadSelection := m.selected >= 0
	m.items = nil
	m.selected = -1
	m.changed()
	if hadSelection {
		m.fire()
	}
}

func (m *Model[T]) Append(item T) {
	m.items = append(m.items, item)
	m.changed()
}

// ReplaceContents clears the model and appends items in order.
func (m *Model[T]) ReplaceContents(items []T) {
	m.Clear()
	for _, item := range items {
		m.Append(item)
	}
}

// Listeners returns a snapshot of the attached listeners in attach order.
func (m *Model[T]) Listeners() []*Listener[T] {
	out := make([]*Listener[T], len(m.listeners))
	copy(out, m.listeners)
	return out
}

func (m *Model[T]) AddListener(l *Listener[T]) {
	if l == nil {
		return
	}
	m.listeners = append(m.listeners, l)
}

func (m *Model[T]) RemoveListener(l *Listener[T]) {
	for i, cur := range m.listeners {
		if cur == l {
			m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
			return
		}
	}
}

func (m *Model[T]) fire() {
	ev := SelectionEvent[T]{Index: -1}
	if m.selected >= 0 {
		ev.Index = m.selected
		ev.Item = m.items[m.selected]
	}
	// listeners may detach themselves while being notified
	for _, l := range m.Listeners() {
		l.fn(ev)
	}
}

func (m *Model[T]) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
