package matching

import "testing"

func TestLevelFIFOAndRestingQuantity(t *testing.T) {
	l := newLevel(1000)
	gen := NewIDGenerator()

	a := NewOrder(gen, "AAA", Sell, 1000, 3)
	b := NewOrder(gen, "AAA", Sell, 1000, 4)
	l.PushBack(a)
	l.PushBack(b)

	if l.RestingQuantity() != 7 {
		t.Fatalf("resting = %d, want 7", l.RestingQuantity())
	}
	if got := l.Front(); got != a {
		t.Fatal("front should be the first pushed order")
	}

	popped := l.PopFront()
	if popped != a {
		t.Fatal("pop should return orders in FIFO order")
	}
	if l.RestingQuantity() != 4 {
		t.Fatalf("resting after pop = %d, want 4", l.RestingQuantity())
	}
	if l.Empty() {
		t.Fatal("level should still hold order b")
	}

	l.PopFront()
	if !l.Empty() {
		t.Fatal("level should be empty after popping both orders")
	}
}
