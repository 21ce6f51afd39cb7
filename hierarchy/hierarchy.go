// Package hierarchy maintains world matrices for a forest of parent-linked
// transform nodes.
//
// Nodes live in a generational slot map and reference each other by NodeID,
// so parent and child links never own one another. Every mutation
// recomputes only the affected subtree, except SetLocal, which defers the
// work to the next Resolve.
//
// The hierarchy does not prevent cycles. Propagation tracks visited nodes
// and, on revisiting one, logs a warning and stops descending that branch;
// matrices inside the cycle may stay stale but the call always returns.
//
// A Hierarchy is not safe for concurrent use.
package hierarchy

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/internal/slotmap"
	"github.com/gogpu/g3d/transform"
)

// NodeID identifies a node. The zero NodeID means "no node" and is used as
// the parent of root nodes.
type NodeID uint64

type node struct {
	local    transform.Transform
	parent   NodeID
	children []NodeID

	// pass stamps for Resolve
	resolved uint64
	waiting  uint64
}

// Hierarchy owns nodes, their parent/child links and cached world matrices.
type Hierarchy struct {
	nodes      slotmap.Map[NodeID, node]
	worlds     slotmap.SecondaryMap[NodeID, mgl32.Mat4]
	recomputes uint64

	pass  uint64
	stack []NodeID
}

// New returns an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{}
}

// Insert adds a node with local transform t under parent and returns its id.
// A zero or unknown parent inserts a root node.
func (h *Hierarchy) Insert(t transform.Transform, parent NodeID) NodeID {
	if parent != 0 && !h.nodes.Contains(parent) {
		slogger().Debug("hierarchy: insert with unknown parent, inserting as root", "parent", parent)
		parent = 0
	}
	id := h.nodes.Insert(node{local: t, parent: parent})
	if parent != 0 {
		p := h.nodes.Ptr(parent)
		p.children = append(p.children, id)
	}
	h.worlds.Set(id, h.parentWorld(parent).Mul4(t.LocalMatrix()))
	h.recomputes++
	return id
}

// Remove deletes id and its entire subtree. It returns the number of nodes
// removed; unknown ids remove nothing.
func (h *Hierarchy) Remove(id NodeID) int { return h.RemoveFunc(id, nil) }

// RemoveFunc is like Remove and calls fn, if non-nil, with every removed
// node. A node is reported before its children.
func (h *Hierarchy) RemoveFunc(id NodeID, fn func(NodeID)) int {
	n := h.nodes.Ptr(id)
	if n == nil {
		return 0
	}
	h.detach(id, n.parent)

	removed := 0
	visited := make(map[NodeID]struct{})
	pending := []NodeID{id}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}

		gone, ok := h.nodes.Remove(cur)
		if !ok {
			continue
		}
		h.worlds.Remove(cur)
		if fn != nil {
			fn(cur)
		}
		removed++
		pending = append(pending, gone.children...)
	}
	return removed
}

// SetParent re-parents id under parent. A zero parent makes id a root.
// Nothing happens if parent is already id's parent, if either node is
// unknown, or if parent is id itself.
func (h *Hierarchy) SetParent(id, parent NodeID) {
	n := h.nodes.Ptr(id)
	if n == nil || n.parent == parent {
		return
	}
	if parent == id {
		slogger().Warn("hierarchy: refusing to parent node to itself", "node", id)
		return
	}
	if parent != 0 && !h.nodes.Contains(parent) {
		return
	}

	old := n.parent
	n.parent = parent
	h.detach(id, old)
	if parent != 0 {
		p := h.nodes.Ptr(parent)
		p.children = append(p.children, id)
	}
	h.propagate(id)
}

// SetTransform replaces id's local transform and refreshes the world
// matrices of id and all of its descendants.
func (h *Hierarchy) SetTransform(id NodeID, t transform.Transform) {
	n := h.nodes.Ptr(id)
	if n == nil {
		return
	}
	n.local = t
	h.propagate(id)
}

// SetLocal replaces id's local transform without touching any world
// matrix. The next Resolve brings id and its descendants up to date.
// It reports whether id is a live node.
func (h *Hierarchy) SetLocal(id NodeID, t transform.Transform) bool {
	n := h.nodes.Ptr(id)
	if n == nil {
		return false
	}
	n.local = t
	return true
}

// Resolve recomputes every world matrix and returns how many it computed.
//
// Nodes are visited in slot order. A node whose parent has not been
// resolved in this pass pushes the parent onto a work stack and waits, so
// ancestors always resolve before descendants whatever the visit order.
// Reaching a waiting parent again closes a cycle: the node is logged,
// keeps its previous matrix and the branch is skipped.
func (h *Hierarchy) Resolve() int {
	h.pass++
	pass := h.pass
	resolved := 0
	for id := range h.nodes.All() {
		if h.nodes.Ptr(id).resolved == pass {
			continue
		}
		stack := append(h.stack[:0], id)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			n := h.nodes.Ptr(cur)
			if n.resolved == pass {
				stack = stack[:len(stack)-1]
				continue
			}
			if n.parent != 0 {
				p := h.nodes.Ptr(n.parent)
				if p.resolved != pass {
					if p.waiting != pass {
						n.waiting = pass
						stack = append(stack, n.parent)
						continue
					}
					slogger().Warn("hierarchy: cycle detected, skipping branch", "node", cur, "parent", n.parent)
					n.resolved = pass
					stack = stack[:len(stack)-1]
					continue
				}
			}
			h.worlds.Set(cur, h.parentWorld(n.parent).Mul4(n.local.LocalMatrix()))
			h.recomputes++
			n.resolved = pass
			resolved++
			stack = stack[:len(stack)-1]
		}
		h.stack = stack
	}
	return resolved
}

// Transform returns id's local transform.
func (h *Hierarchy) Transform(id NodeID) (transform.Transform, bool) {
	n, ok := h.nodes.Get(id)
	return n.local, ok
}

// Parent returns id's parent. The parent is zero for root nodes.
func (h *Hierarchy) Parent(id NodeID) (NodeID, bool) {
	n, ok := h.nodes.Get(id)
	return n.parent, ok
}

// Children returns a copy of id's child list.
func (h *Hierarchy) Children(id NodeID) []NodeID {
	n, ok := h.nodes.Get(id)
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// WorldMatrix returns id's cached world matrix.
func (h *Hierarchy) WorldMatrix(id NodeID) (mgl32.Mat4, bool) {
	return h.worlds.Get(id)
}

// WorldScaleRotationPosition decomposes id's world matrix.
func (h *Hierarchy) WorldScaleRotationPosition(id NodeID) (scale mgl32.Vec3, rotation mgl32.Quat, position mgl32.Vec3, ok bool) {
	m, ok := h.worlds.Get(id)
	if !ok {
		return scale, rotation, position, false
	}
	t := transform.FromMatrix(m)
	return t.Scale, t.Rotation, t.Position, true
}

// Contains reports whether id is a live node.
func (h *Hierarchy) Contains(id NodeID) bool { return h.nodes.Contains(id) }

// Len returns the number of live nodes.
func (h *Hierarchy) Len() int { return h.nodes.Len() }

// Recomputes returns the number of world matrices computed so far.
func (h *Hierarchy) Recomputes() uint64 { return h.recomputes }

// Clear removes every node.
func (h *Hierarchy) Clear() {
	h.nodes.Clear()
	h.worlds.Clear()
}

func (h *Hierarchy) parentWorld(parent NodeID) mgl32.Mat4 {
	if parent == 0 {
		return mgl32.Ident4()
	}
	if m, ok := h.worlds.Get(parent); ok {
		return m
	}
	return mgl32.Ident4()
}

func (h *Hierarchy) detach(id, parent NodeID) {
	if parent == 0 {
		return
	}
	p := h.nodes.Ptr(parent)
	if p == nil {
		return
	}
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

// propagate recomputes root and its descendants depth-first.
func (h *Hierarchy) propagate(root NodeID) {
	visited := make(map[NodeID]struct{})
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			slogger().Warn("hierarchy: cycle detected, skipping branch", "node", id, "root", root)
			continue
		}
		visited[id] = struct{}{}

		n := h.nodes.Ptr(id)
		if n == nil {
			continue
		}
		h.worlds.Set(id, h.parentWorld(n.parent).Mul4(n.local.LocalMatrix()))
		h.recomputes++

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
