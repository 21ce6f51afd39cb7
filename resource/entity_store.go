package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/gpucore"
)

// InitialEntityCapacity is the number of records a new store holds.
const InitialEntityCapacity = 32

// EntityUniformStore is one shader's buffer of entity records, addressed
// with dynamic offsets. Each record occupies Alignment bytes, so record i
// starts at i × Alignment.
//
// Capacity only grows. When a frame needs more than half of it, the store
// is reallocated at double size until it holds at least twice the count.
type EntityUniformStore struct {
	label     string
	layout    gpucore.BindGroupLayoutID
	alignment uint64
	capacity  int

	buffer    gpucore.BufferID
	bindGroup gpucore.BindGroupID

	staging []byte
}

// NewEntityUniformStore allocates InitialEntityCapacity records bound
// through layout.
func NewEntityUniformStore(b gpucore.Backend, label string, layout gpucore.BindGroupLayoutID) (*EntityUniformStore, error) {
	s := &EntityUniformStore{
		label:     label,
		layout:    layout,
		alignment: AlignTo(EntityUniformsSize, uint64(b.Limits().MinUniformBufferOffsetAlignment)),
	}
	if err := s.alloc(b, InitialEntityCapacity); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EntityUniformStore) alloc(b gpucore.Backend, capacity int) error {
	buf, err := b.CreateBuffer(gpucore.BufferDesc{
		Label: s.label + " entity uniforms",
		Size:  uint64(capacity) * s.alignment,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("entity uniforms %q: buffer for %d records: %w", s.label, capacity, err)
	}
	group, err := b.CreateBindGroup(gpucore.BindGroupDesc{
		Label:  s.label + " entity bind group",
		Layout: s.layout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: EntityUniformsSize},
		},
	})
	if err != nil {
		b.DestroyBuffer(buf)
		return fmt.Errorf("entity uniforms %q: bind group: %w", s.label, err)
	}
	s.buffer, s.bindGroup, s.capacity = buf, group, capacity
	return nil
}

// EnsureCapacity grows the store so it holds at least 2 × count records.
// It reports whether the buffer was reallocated. On error the previous
// buffer stays in place.
func (s *EntityUniformStore) EnsureCapacity(b gpucore.Backend, count int) (bool, error) {
	if s.capacity >= 2*count {
		return false, nil
	}
	capacity := max(s.capacity*2, 1)
	for capacity < 2*count {
		capacity *= 2
	}

	oldBuf, oldGroup := s.buffer, s.bindGroup
	if err := s.alloc(b, capacity); err != nil {
		return false, err
	}
	b.DestroyBindGroup(oldGroup)
	b.DestroyBuffer(oldBuf)
	return true, nil
}

// Write stores u as record index.
func (s *EntityUniformStore) Write(b gpucore.Backend, index int, u EntityUniforms) error {
	if index < 0 || index >= s.capacity {
		return fmt.Errorf("entity uniforms %q: index %d out of range [0, %d)", s.label, index, s.capacity)
	}
	return b.WriteBuffer(s.buffer, uint64(index)*s.alignment, u.Bytes())
}

// WriteAll stores us as records 0..len(us)-1 with a single buffer write.
func (s *EntityUniformStore) WriteAll(b gpucore.Backend, us []EntityUniforms) error {
	if len(us) == 0 {
		return nil
	}
	if len(us) > s.capacity {
		return fmt.Errorf("entity uniforms %q: %d records exceed capacity %d", s.label, len(us), s.capacity)
	}
	size := int(s.alignment) * (len(us) - 1)
	size += EntityUniformsSize
	if cap(s.staging) < size {
		s.staging = make([]byte, 0, size)
	}
	buf := s.staging[:0]
	for i, u := range us {
		buf = u.AppendBytes(buf)
		if i < len(us)-1 {
			for range int(s.alignment) - EntityUniformsSize {
				buf = append(buf, 0)
			}
		}
	}
	s.staging = buf
	return b.WriteBuffer(s.buffer, 0, buf)
}

// Offset returns the dynamic offset of record index.
func (s *EntityUniformStore) Offset(index int) uint32 {
	return uint32(uint64(index) * s.alignment)
}

// Capacity returns the number of records the buffer holds.
func (s *EntityUniformStore) Capacity() int { return s.capacity }

// Alignment returns the byte stride between records.
func (s *EntityUniformStore) Alignment() uint64 { return s.alignment }

// Buffer returns the current uniform buffer.
func (s *EntityUniformStore) Buffer() gpucore.BufferID { return s.buffer }

// BindGroup returns the current group 2 bind group.
func (s *EntityUniformStore) BindGroup() gpucore.BindGroupID { return s.bindGroup }

// Destroy releases the buffer and bind group.
func (s *EntityUniformStore) Destroy(b gpucore.Backend) {
	b.DestroyBindGroup(s.bindGroup)
	b.DestroyBuffer(s.buffer)
	s.buffer, s.bindGroup, s.capacity = gpucore.InvalidID, gpucore.InvalidID, 0
}
