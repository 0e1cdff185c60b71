package undo

import "testing"

type gridSnapshot struct {
	cells []int
	moves int
}

func TestStackPushPopOrder(t *testing.T) {
	var stack Stack[int]

	stack.Push(1)
	stack.Push(2)
	stack.Push(3)

	if stack.Len() != 3 {
		t.Fatalf("expected 3 snapshots, got %d", stack.Len())
	}

	for _, want := range []int{3, 2, 1} {
		got, ok := stack.Pop()
		if !ok {
			t.Fatalf("expected snapshot %d", want)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	if _, ok := stack.Pop(); ok {
		t.Fatal("expected empty stack")
	}
}

func TestStackPopEmptyReturnsZero(t *testing.T) {
	var stack Stack[gridSnapshot]

	snapshot, ok := stack.Pop()
	if ok {
		t.Fatal("expected no snapshot")
	}
	if snapshot.cells != nil || snapshot.moves != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snapshot)
	}
}

func TestStackClear(t *testing.T) {
	var stack Stack[gridSnapshot]
	stack.Push(gridSnapshot{cells: []int{1, 2}, moves: 1})
	stack.Push(gridSnapshot{cells: []int{3}, moves: 2})

	stack.Clear()
	if stack.Len() != 0 {
		t.Fatalf("expected empty stack after clear, got %d", stack.Len())
	}
	if _, ok := stack.Pop(); ok {
		t.Fatal("expected pop to fail after clear")
	}
}

func TestStackSnapshotsAreIndependent(t *testing.T) {
	var stack Stack[gridSnapshot]

	cells := []int{1, 2, 3}
	stack.Push(gridSnapshot{cells: append([]int(nil), cells...), moves: 1})
	cells[0] = 99

	snapshot, ok := stack.Pop()
	if !ok {
		t.Fatal("expected snapshot")
	}
	if snapshot.cells[0] != 1 {
		t.Fatalf("expected snapshot isolated from caller slice, got %d", snapshot.cells[0])
	}
}
