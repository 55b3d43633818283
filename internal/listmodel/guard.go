package listmodel

// Populator rewrites the contents of m from data.
type Populator[T any] func(m *Model[T], data []T)

// Populate is the default Populator: clear, then append data in order.
func Populate[T any](m *Model[T], data []T) {
	m.ReplaceContents(data)
}

// Protect returns a closure that applies data to m with every selection
// listener detached. The listeners are re-attached in their original order
// on all exit paths, including a panic inside apply.
func Protect[T any](m *Model[T], apply Populator[T]) func(data []T) {
	if apply == nil {
		apply = Populate[T]
	}
	return func(data []T) {
		saved := m.Listeners()
		for _, l := range saved {
			m.RemoveListener(l)
		}
		defer func() {
			for _, l := range saved {
				m.AddListener(l)
			}
		}()

		apply(m, data)
	}
}
