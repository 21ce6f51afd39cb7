package hierarchy

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/transform"
)

const eps = 1e-5

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func mustWorld(t *testing.T, h *Hierarchy, id NodeID) mgl32.Mat4 {
	t.Helper()
	m, ok := h.WorldMatrix(id)
	if !ok {
		t.Fatalf("WorldMatrix(%d) missing", id)
	}
	return m
}

func TestInsertComposesParentWorld(t *testing.T) {
	h := New()
	root := h.Insert(transform.FromPosition(mgl32.Vec3{1, 0, 0}), 0)
	child := h.Insert(transform.FromPositionScale(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{2, 2, 2}), root)

	want := mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Translate3D(0, 2, 0)).Mul4(mgl32.Scale3D(2, 2, 2))
	if got := mustWorld(t, h, child); !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("WorldMatrix(child) = %v, want %v", got, want)
	}
	if p, _ := h.Parent(child); p != root {
		t.Errorf("Parent(child) = %d, want %d", p, root)
	}
	if kids := h.Children(root); len(kids) != 1 || kids[0] != child {
		t.Errorf("Children(root) = %v, want [%d]", kids, child)
	}
}

func TestWorldMatrixAnyUpdateOrder(t *testing.T) {
	rootT := transform.FromPositionRotation(mgl32.Vec3{5, 0, 0}, mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1}))
	midT := transform.FromPositionScale(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{2, 1, 1})
	leafT := transform.FromPosition(mgl32.Vec3{0, 0, 3})
	want := rootT.LocalMatrix().Mul4(midT.LocalMatrix()).Mul4(leafT.LocalMatrix())

	orders := map[string][]int{
		"leaf-first": {2, 1, 0},
		"root-first": {0, 1, 2},
		"mixed":      {1, 2, 0},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			h := New()
			root := h.Insert(transform.Identity(), 0)
			mid := h.Insert(transform.Identity(), root)
			leaf := h.Insert(transform.Identity(), mid)
			ids := []NodeID{root, mid, leaf}
			locals := []transform.Transform{rootT, midT, leafT}

			for _, i := range order {
				h.SetTransform(ids[i], locals[i])
			}
			if got := mustWorld(t, h, leaf); !got.ApproxEqualThreshold(want, eps) {
				t.Errorf("WorldMatrix(leaf) = %v, want %v", got, want)
			}
		})
	}
}

func TestRemoveDeletesSubtree(t *testing.T) {
	h := New()
	root := h.Insert(transform.Identity(), 0)
	a := h.Insert(transform.Identity(), root)
	b := h.Insert(transform.Identity(), root)
	aa := h.Insert(transform.Identity(), a)
	other := h.Insert(transform.Identity(), 0)

	before, worldsBefore := h.Len(), h.worlds.Len()
	if n := h.Remove(a); n != 2 {
		t.Fatalf("Remove(a) = %d, want 2", n)
	}
	if h.Len() != before-2 || h.worlds.Len() != worldsBefore-2 {
		t.Errorf("sizes after Remove = %d nodes / %d worlds, want %d / %d",
			h.Len(), h.worlds.Len(), before-2, worldsBefore-2)
	}
	for _, id := range []NodeID{a, aa} {
		if h.Contains(id) {
			t.Errorf("Contains(%d) after subtree removal = true", id)
		}
		if _, ok := h.WorldMatrix(id); ok {
			t.Errorf("WorldMatrix(%d) still cached", id)
		}
	}
	if kids := h.Children(root); len(kids) != 1 || kids[0] != b {
		t.Errorf("Children(root) = %v, want [%d]", kids, b)
	}
	if !h.Contains(other) {
		t.Error("unrelated root removed")
	}
	if n := h.Remove(a); n != 0 {
		t.Errorf("second Remove(a) = %d, want 0", n)
	}
	if n := h.Remove(0); n != 0 {
		t.Errorf("Remove(0) = %d, want 0", n)
	}
}

func TestCycleTerminatesWithWarning(t *testing.T) {
	logs := captureLogs(t)
	h := New()
	a := h.Insert(transform.FromPosition(mgl32.Vec3{1, 0, 0}), 0)
	b := h.Insert(transform.FromPosition(mgl32.Vec3{0, 1, 0}), 0)
	h.SetParent(b, a)
	h.SetParent(a, b)

	if p, _ := h.Parent(a); p != b {
		t.Fatalf("Parent(a) = %d, want %d", p, b)
	}
	logs.Reset()

	h.SetTransform(a, transform.FromPosition(mgl32.Vec3{2, 0, 0}))
	h.SetTransform(b, transform.FromPosition(mgl32.Vec3{0, 2, 0}))

	if !strings.Contains(logs.String(), "cycle detected") {
		t.Errorf("expected cycle warning, got logs: %q", logs.String())
	}
	if n := h.Remove(a); n != 2 {
		t.Errorf("Remove(a) on cycle = %d, want 2", n)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestSetParentSameParentIsNoop(t *testing.T) {
	h := New()
	p := h.Insert(transform.FromPosition(mgl32.Vec3{1, 1, 1}), 0)
	c := h.Insert(transform.Identity(), 0)
	h.Insert(transform.Identity(), c)

	h.SetParent(c, p)
	afterFirst := h.Recomputes()
	want := mustWorld(t, h, c)

	h.SetParent(c, p)
	if got := h.Recomputes(); got != afterFirst {
		t.Errorf("Recomputes() after repeated SetParent = %d, want %d", got, afterFirst)
	}
	if got := mustWorld(t, h, c); got != want {
		t.Errorf("world changed on no-op SetParent: %v, want %v", got, want)
	}
	if kids := h.Children(p); len(kids) != 1 {
		t.Errorf("Children(p) = %v, want exactly one child", kids)
	}
}

func TestSetParentMovesBetweenParents(t *testing.T) {
	h := New()
	p1 := h.Insert(transform.FromPosition(mgl32.Vec3{10, 0, 0}), 0)
	p2 := h.Insert(transform.FromPosition(mgl32.Vec3{0, 10, 0}), 0)
	c := h.Insert(transform.FromPosition(mgl32.Vec3{1, 0, 0}), p1)
	gc := h.Insert(transform.FromPosition(mgl32.Vec3{0, 0, 1}), c)

	h.SetParent(c, p2)

	if kids := h.Children(p1); len(kids) != 0 {
		t.Errorf("Children(p1) = %v, want empty", kids)
	}
	_, _, pos, ok := h.WorldScaleRotationPosition(gc)
	if !ok {
		t.Fatal("WorldScaleRotationPosition(gc) missing")
	}
	if want := (mgl32.Vec3{1, 10, 1}); !pos.ApproxEqualThreshold(want, eps) {
		t.Errorf("grandchild position = %v, want %v", pos, want)
	}

	h.SetParent(c, 0)
	if got := mustWorld(t, h, c); !got.ApproxEqualThreshold(mgl32.Translate3D(1, 0, 0), eps) {
		t.Errorf("detached world = %v, want local matrix", got)
	}
}

func TestSetParentToSelfRefused(t *testing.T) {
	h := New()
	a := h.Insert(transform.Identity(), 0)
	h.SetParent(a, a)
	if p, _ := h.Parent(a); p != 0 {
		t.Errorf("Parent(a) = %d, want 0", p)
	}
}

func TestUnknownIDs(t *testing.T) {
	h := New()
	a := h.Insert(transform.Identity(), 0)
	h.Remove(a)

	if _, ok := h.WorldMatrix(a); ok {
		t.Error("WorldMatrix(removed) ok = true")
	}
	if _, _, _, ok := h.WorldScaleRotationPosition(a); ok {
		t.Error("WorldScaleRotationPosition(removed) ok = true")
	}
	if _, ok := h.Transform(a); ok {
		t.Error("Transform(removed) ok = true")
	}
	h.SetTransform(a, transform.Identity())
	h.SetParent(a, 0)
	if h.Children(a) != nil {
		t.Error("Children(removed) != nil")
	}

	orphan := h.Insert(transform.Identity(), a)
	if p, _ := h.Parent(orphan); p != 0 {
		t.Errorf("insert under removed parent: Parent = %d, want root", p)
	}
}

func TestWorldScaleRotationPosition(t *testing.T) {
	h := New()
	rot := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	root := h.Insert(transform.New(mgl32.Vec3{1, 2, 3}, rot, mgl32.Vec3{2, 2, 2}), 0)

	scale, gotRot, pos, ok := h.WorldScaleRotationPosition(root)
	if !ok {
		t.Fatal("WorldScaleRotationPosition() ok = false")
	}
	if !scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-4) {
		t.Errorf("scale = %v, want [2 2 2]", scale)
	}
	if !pos.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, eps) {
		t.Errorf("position = %v, want [1 2 3]", pos)
	}
	v := gotRot.Rotate(mgl32.Vec3{1, 0, 0})
	if want := rot.Rotate(mgl32.Vec3{1, 0, 0}); !v.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("rotation maps X to %v, want %v", v, want)
	}
}

func TestClear(t *testing.T) {
	h := New()
	r := h.Insert(transform.Identity(), 0)
	h.Insert(transform.Identity(), r)
	h.Clear()
	if h.Len() != 0 || h.Contains(r) {
		t.Errorf("Clear() left %d nodes", h.Len())
	}
}

func TestResolveAncestorsFirst(t *testing.T) {
	h := New()
	ta := transform.FromPosition(mgl32.Vec3{1, 0, 0})
	tb := transform.FromPositionScale(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{2, 2, 2})
	tc := transform.FromPosition(mgl32.Vec3{0, 0, 1})

	// Descendants take lower slots than their ancestors.
	c := h.Insert(tc, 0)
	b := h.Insert(tb, 0)
	a := h.Insert(ta, 0)
	h.SetParent(c, b)
	h.SetParent(b, a)

	ta2 := transform.FromPosition(mgl32.Vec3{-4, 0, 0})
	if !h.SetLocal(a, ta2) {
		t.Fatal("SetLocal(a) = false")
	}
	stale := mustWorld(t, h, c)

	if got := h.Resolve(); got != 3 {
		t.Errorf("Resolve() = %d, want 3", got)
	}
	want := ta2.LocalMatrix().Mul4(tb.LocalMatrix()).Mul4(tc.LocalMatrix())
	got := mustWorld(t, h, c)
	if !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("WorldMatrix(c) = %v, want %v", got, want)
	}
	if got.ApproxEqualThreshold(stale, eps) {
		t.Error("SetLocal + Resolve left the grandchild unchanged")
	}

	// A second pass recomputes the same values.
	if n := h.Resolve(); n != 3 {
		t.Errorf("second Resolve() = %d, want 3", n)
	}
	if again := mustWorld(t, h, c); !again.ApproxEqualThreshold(want, eps) {
		t.Errorf("second Resolve changed WorldMatrix(c) to %v", again)
	}
}

func TestSetLocalDefersWorld(t *testing.T) {
	h := New()
	id := h.Insert(transform.FromPosition(mgl32.Vec3{1, 0, 0}), 0)
	h.SetLocal(id, transform.FromPosition(mgl32.Vec3{7, 0, 0}))

	if pos := mustWorld(t, h, id).Col(3).Vec3(); pos != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("world before Resolve = %v, want [1 0 0]", pos)
	}
	h.Resolve()
	if pos := mustWorld(t, h, id).Col(3).Vec3(); pos != (mgl32.Vec3{7, 0, 0}) {
		t.Errorf("world after Resolve = %v, want [7 0 0]", pos)
	}
	if h.SetLocal(NodeID(12345), transform.Identity()) {
		t.Error("SetLocal(unknown) = true")
	}
}

func TestResolveCycle(t *testing.T) {
	logs := captureLogs(t)
	h := New()
	a := h.Insert(transform.FromPosition(mgl32.Vec3{1, 0, 0}), 0)
	b := h.Insert(transform.FromPosition(mgl32.Vec3{0, 1, 0}), a)
	h.SetParent(a, b)
	logs.Reset()

	if got := h.Resolve(); got != 1 {
		t.Errorf("Resolve() = %d, want 1 (one node of the cycle skipped)", got)
	}
	if !strings.Contains(logs.String(), "cycle detected") {
		t.Errorf("no cycle warning; logs:\n%s", logs.String())
	}
}

func TestRemoveFuncReportsSubtree(t *testing.T) {
	h := New()
	root := h.Insert(transform.Identity(), 0)
	c1 := h.Insert(transform.Identity(), root)
	c2 := h.Insert(transform.Identity(), root)
	gc := h.Insert(transform.Identity(), c1)
	other := h.Insert(transform.Identity(), 0)

	var got []NodeID
	n := h.RemoveFunc(root, func(id NodeID) { got = append(got, id) })
	if n != 4 || len(got) != 4 {
		t.Fatalf("RemoveFunc() = %d with %d callbacks, want 4", n, len(got))
	}
	if got[0] != root {
		t.Errorf("first reported node = %d, want root %d", got[0], root)
	}
	seen := map[NodeID]bool{}
	for _, id := range got {
		seen[id] = true
	}
	for _, id := range []NodeID{c1, c2, gc} {
		if !seen[id] {
			t.Errorf("node %d not reported", id)
		}
	}
	if seen[other] || !h.Contains(other) {
		t.Error("unrelated root was removed")
	}
}
