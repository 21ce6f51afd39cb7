package scene

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/resource"
)

// DrawItem is one entry of the ordered draw list.
type DrawItem struct {
	// Entity is zero for transient draws.
	Entity   EntityID
	Mesh     resource.MeshID
	Material resource.MaterialID
	Shader   resource.ShaderID
	Uniforms resource.EntityUniforms
	// Index is the record in the shader's entity uniform store.
	Index int
	// Depth is the view-space Z of the entity origin.
	Depth float32
}

// UpdateStats describes the last Update.
type UpdateStats struct {
	// Resolved is the number of world matrices recomputed.
	Resolved int
	// Entities is the length of the draw list.
	Entities int
	// Shaders is the number of shaders whose camera was updated: every
	// shader used by a prefab or by a submitted or stored entity, visible
	// or not.
	Shaders int
	// Transparent is the number of depth-sorted entities.
	Transparent int
	// Grown is the number of entity uniform stores reallocated.
	Grown int
}

type bucket struct {
	shader resource.ShaderID
	items  []DrawItem
	staged []resource.EntityUniforms
}

// Update builds this frame's draw list and uploads camera and entity
// uniforms. Transient draws submitted since the last Update are consumed.
//
// Handles that no longer resolve in res panic.
func (s *Scene) Update(b gpucore.Backend, res *resource.Tables, cam Camera) error {
	stats := UpdateStats{Resolved: s.resolveWorlds()}

	s.resetBuckets()
	for _, id := range s.renderObjects {
		s.collect(res, id, s.entities.Ptr(id))
	}
	for _, p := range s.prefabs.All() {
		// The camera is bound for every prefab's shader, drawn or not.
		s.bucket(res.Materials.Get(p.Material).Shader)
		for _, id := range p.Instances {
			s.collect(res, id, s.entities.Ptr(id))
		}
	}
	for i := range s.transients {
		s.collect(res, 0, &s.transients[i])
	}
	s.transients = s.transients[:0]

	viewProj := cam.ViewProjection()
	view := cam.View()
	s.items = s.items[:0]
	var ordered []DrawItem
	for i := range s.buckets {
		bk := &s.buckets[i]
		sh := res.Shaders.Get(bk.shader)
		if err := sh.Camera.Update(b, viewProj); err != nil {
			return fmt.Errorf("scene: camera uniform for shader %q: %w", sh.Label, err)
		}
		grown, err := sh.Entities.EnsureCapacity(b, len(bk.items))
		if err != nil {
			return fmt.Errorf("scene: grow entity uniforms for shader %q: %w", sh.Label, err)
		}
		if grown {
			stats.Grown++
			slogger().Debug("scene: entity uniforms grown",
				"shader", sh.Label, "entities", len(bk.items), "capacity", sh.Entities.Capacity())
		}
		for j := range bk.items {
			bk.items[j].Depth = mgl32.TransformCoordinate(bk.items[j].Uniforms.Model.Col(3).Vec3(), view).Z()
		}
		if sh.RequiresOrdering {
			ordered = append(ordered, bk.items...)
		} else {
			s.items = append(s.items, bk.items...)
		}
	}

	slices.SortStableFunc(ordered, func(a, b DrawItem) int { return cmp.Compare(a.Depth, b.Depth) })
	s.items = append(s.items, ordered...)

	if err := s.upload(b, res); err != nil {
		return err
	}

	stats.Entities = len(s.items)
	stats.Shaders = len(s.buckets)
	stats.Transparent = len(ordered)
	s.stats = stats
	return nil
}

// resolveWorlds resolves the hierarchy and copies each world matrix into
// its entity record.
func (s *Scene) resolveWorlds() int {
	n := s.tree.Resolve()
	for id := range s.entities.All() {
		if m, ok := s.tree.WorldMatrix(id); ok {
			s.entities.Ptr(id).Matrix = m
		}
	}
	return n
}

func (s *Scene) resetBuckets() {
	for i := range s.buckets {
		s.buckets[i].items = s.buckets[i].items[:0]
		s.buckets[i].staged = s.buckets[i].staged[:0]
	}
	s.buckets = s.buckets[:0]
	clear(s.bucketOf)
}

// bucket returns the index of shader's bucket, adding an empty one on
// first use.
func (s *Scene) bucket(shader resource.ShaderID) int {
	if i, ok := s.bucketOf[shader]; ok {
		return i
	}
	i := len(s.buckets)
	s.bucketOf[shader] = i
	if i < cap(s.buckets) {
		s.buckets = s.buckets[:i+1]
		s.buckets[i].shader = shader
	} else {
		s.buckets = append(s.buckets, bucket{shader: shader})
	}
	return i
}

// collect adds a visible entity to its shader's bucket. Hidden entities
// still register the bucket so the shader's camera is updated.
func (s *Scene) collect(res *resource.Tables, id EntityID, e *Entity) {
	if e == nil {
		return
	}
	shader := res.Materials.Get(e.Material).Shader
	i := s.bucket(shader)
	if !e.Visible {
		return
	}
	s.buckets[i].items = append(s.buckets[i].items, DrawItem{
		Entity:   id,
		Mesh:     e.Mesh,
		Material: e.Material,
		Shader:   shader,
		Uniforms: e.Uniforms(),
	})
}

// upload numbers items per shader in draw order and writes each shader's
// records with one buffer write.
func (s *Scene) upload(b gpucore.Backend, res *resource.Tables) error {
	for i := range s.items {
		it := &s.items[i]
		bk := &s.buckets[s.bucketOf[it.Shader]]
		it.Index = len(bk.staged)
		bk.staged = append(bk.staged, it.Uniforms)
	}
	for i := range s.buckets {
		bk := &s.buckets[i]
		sh := res.Shaders.Get(bk.shader)
		if err := sh.Entities.WriteAll(b, bk.staged); err != nil {
			return fmt.Errorf("scene: entity uniforms for shader %q: %w", sh.Label, err)
		}
	}
	return nil
}

// DrawList returns the ordered draw list built by the last Update. It is
// valid until the next Update or Clear.
func (s *Scene) DrawList() []DrawItem { return s.items }

// LastStats returns statistics of the last Update.
func (s *Scene) LastStats() UpdateStats { return s.stats }
