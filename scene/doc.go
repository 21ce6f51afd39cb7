// Package scene batches entities into an ordered, minimally rebinding draw
// list.
//
// A Scene builds on a hierarchy.Hierarchy: every EntityID is a node of it,
// paired with an entity record keyed by the same id, and the two are
// allocated and freed together. Standalone entities, prefab instances and
// transient DrawCommands are all normalized to Entity records. Each frame
// Update resolves world matrices and buckets entities by shader. It
// updates the camera of every shader in use, even one with nothing
// visible, then drops hidden entities, grows the per-shader uniform
// stores, depth sorts blended entities and uploads entity uniforms. The
// result is the list that render.Draw consumes.
//
// Opaque buckets are emitted first in the order their shader was first
// seen. Entities of shaders that require ordering follow, stable sorted by
// ascending view-space Z. The camera looks down -Z, so the farthest entity
// is drawn first.
//
// A Scene is not safe for concurrent use. Mutations must not overlap
// Update.
package scene
