package matching

import "testing"

func TestLadderMinMax(t *testing.T) {
	l := newLadder()
	for _, p := range []int64{500, 100, 900, 300, 700} {
		l.upsert(p)
	}
	if got := l.minLevel().Price; got != 100 {
		t.Fatalf("min = %d, want 100", got)
	}
	if got := l.maxLevel().Price; got != 900 {
		t.Fatalf("max = %d, want 900", got)
	}
	if l.Len() != 5 {
		t.Fatalf("len = %d, want 5", l.Len())
	}
}

func TestLadderUpsertIsIdempotentPerPrice(t *testing.T) {
	l := newLadder()
	a := l.upsert(100)
	b := l.upsert(100)
	if a != b {
		t.Fatal("upsert should return the same level for the same price")
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestLadderRemove(t *testing.T) {
	l := newLadder()
	l.upsert(100)
	l.upsert(200)
	l.remove(100)
	if l.find(100) != nil {
		t.Fatal("removed level still findable")
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestLadderAscendingDescendingOrder(t *testing.T) {
	l := newLadder()
	prices := []int64{50, 10, 40, 20, 30}
	for _, p := range prices {
		l.upsert(p)
	}

	var asc []int64
	l.forEachAscending(func(lv *Level) bool { asc = append(asc, lv.Price); return true })
	want := []int64{10, 20, 30, 40, 50}
	for i, p := range want {
		if asc[i] != p {
			t.Fatalf("ascending[%d] = %d, want %d (full: %v)", i, asc[i], p, asc)
		}
	}

	var desc []int64
	l.forEachDescending(func(lv *Level) bool { desc = append(desc, lv.Price); return true })
	for i := range want {
		if desc[i] != want[len(want)-1-i] {
			t.Fatalf("descending[%d] = %d, want %d (full: %v)", i, desc[i], want[len(want)-1-i], desc)
		}
	}
}

func TestLadderEmptyHasNoMinMax(t *testing.T) {
	l := newLadder()
	if l.minLevel() != nil || l.maxLevel() != nil {
		t.Fatal("empty ladder should have no min/max level")
	}
}
