package resource

// MeshID identifies a Mesh in a Tables. The zero value means none.
type MeshID uint64

// TextureID identifies a Texture in a Tables. The zero value means none.
type TextureID uint64

// ShaderID identifies a Shader in a Tables. The zero value means none.
type ShaderID uint64

// MaterialID identifies a Material in a Tables. The zero value means none.
type MaterialID uint64
