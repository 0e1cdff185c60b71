// Package undo provides the snapshot stack variants use to implement Undo.
//
// Variants push a full copy of their mutable state before each successful
// move and restore by popping. The stack itself is unbounded; undo budgets
// are a session concern and live with the caller.
package undo

// Stack is a LIFO of state snapshots.
type Stack[T any] struct {
	snapshots []T
}

// Push records a snapshot.
func (s *Stack[T]) Push(snapshot T) {
	s.snapshots = append(s.snapshots, snapshot)
}

// Pop removes and returns the most recent snapshot. The second return is
// false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	if len(s.snapshots) == 0 {
		var zero T
		return zero, false
	}
	last := len(s.snapshots) - 1
	snapshot := s.snapshots[last]
	s.snapshots[last] = *new(T)
	s.snapshots = s.snapshots[:last]
	return snapshot, true
}

// Len reports how many snapshots are stored.
func (s *Stack[T]) Len() int {
	return len(s.snapshots)
}

// Clear discards all snapshots.
func (s *Stack[T]) Clear() {
	s.snapshots = nil
}
