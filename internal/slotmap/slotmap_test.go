package slotmap

import "testing"

type testKey uint64

func TestMapInsertGet(t *testing.T) {
	m := New[testKey, string](0)
	a := m.Insert("a")
	b := m.Insert("b")

	if a == 0 || b == 0 {
		t.Fatalf("Insert() returned zero key: a=%d b=%d", a, b)
	}
	if got, ok := m.Get(a); !ok || got != "a" {
		t.Errorf("Get(a) = %q, %v, want \"a\", true", got, ok)
	}
	if got, ok := m.Get(b); !ok || got != "b" {
		t.Errorf("Get(b) = %q, %v, want \"b\", true", got, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestMapZeroKeyNeverValid(t *testing.T) {
	var m Map[testKey, int]
	m.Insert(1)
	if m.Contains(0) {
		t.Error("Contains(0) = true, want false")
	}
	if p := m.Ptr(0); p != nil {
		t.Errorf("Ptr(0) = %v, want nil", p)
	}
}

func TestMapStaleKeyDoesNotAlias(t *testing.T) {
	m := New[testKey, int](4)
	old := m.Insert(10)
	if _, ok := m.Remove(old); !ok {
		t.Fatal("Remove(old) = false, want true")
	}
	reused := m.Insert(20)

	if Index(old) != Index(reused) {
		t.Fatalf("slot not reused: old index %d, new index %d", Index(old), Index(reused))
	}
	if Generation(old) == Generation(reused) {
		t.Fatalf("generation not bumped: %d", Generation(old))
	}
	if _, ok := m.Get(old); ok {
		t.Error("Get(stale) resolved, want miss")
	}
	if v, _ := m.Get(reused); v != 20 {
		t.Errorf("Get(reused) = %d, want 20", v)
	}
	if _, ok := m.Remove(old); ok {
		t.Error("Remove(stale) = true, want false")
	}
}

func TestMapClear(t *testing.T) {
	m := New[testKey, int](0)
	keys := []testKey{m.Insert(1), m.Insert(2), m.Insert(3)}
	m.Clear()

	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
	for _, k := range keys {
		if m.Contains(k) {
			t.Errorf("Contains(%d) after Clear = true", k)
		}
	}
	k := m.Insert(4)
	if Index(k) != 0 {
		t.Errorf("first insert after Clear uses slot %d, want 0", Index(k))
	}
}

func TestMapAllOrder(t *testing.T) {
	m := New[testKey, int](0)
	a := m.Insert(1)
	m.Insert(2)
	m.Insert(3)
	m.Remove(a)

	var got []int
	for _, v := range m.All() {
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("All() = %v, want [2 3]", got)
	}
	if keys := m.Keys(); len(keys) != 2 {
		t.Errorf("len(Keys()) = %d, want 2", len(keys))
	}
}

func TestSecondaryMap(t *testing.T) {
	primary := New[testKey, string](0)
	sec := NewSecondary[testKey, int]()

	a := primary.Insert("a")
	b := primary.Insert("b")
	sec.Set(a, 1)
	sec.Set(b, 2)

	if v, ok := sec.Get(a); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if sec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sec.Len())
	}

	primary.Remove(a)
	c := primary.Insert("c")
	if sec.Contains(c) {
		t.Error("secondary resolved a recycled key it was never set for")
	}
	sec.Set(c, 3)
	if sec.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", sec.Len())
	}
	if _, ok := sec.Get(a); ok {
		t.Error("Get(stale) resolved after slot overwrite")
	}

	if _, ok := sec.Remove(b); !ok {
		t.Error("Remove(b) = false")
	}
	if sec.Len() != 1 {
		t.Errorf("Len() after Remove = %d, want 1", sec.Len())
	}

	sec.Clear()
	if sec.Len() != 0 || sec.Contains(c) {
		t.Error("Clear() left entries behind")
	}
}
