package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
)

// writeQuadGLB writes a unit quad split across three primitives: two share
// material 0, one uses material 1.
func writeQuadGLB(t *testing.T) string {
	t.Helper()

	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	var data []byte
	for _, p := range positions {
		for _, c := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(c))
		}
	}
	indexOffset := len(data)
	for _, i := range []uint16{0, 1, 2, 0, 2, 3} {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	doc := &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: indexOffset},
			{Buffer: 0, ByteOffset: indexOffset, ByteLength: len(data) - indexOffset},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 4, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
			{BufferView: gltf.Index(1), ByteOffset: 6, ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
		Materials: []*gltf.Material{{Name: "front"}, {Name: "back"}},
		Meshes: []*gltf.Mesh{{
			Name: "quad",
			Primitives: []*gltf.Primitive{
				{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: 0}, Indices: gltf.Index(1), Material: gltf.Index(0)},
				{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: 0}, Indices: gltf.Index(2), Material: gltf.Index(1)},
				{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: 0}, Indices: gltf.Index(1), Material: gltf.Index(0)},
			},
		}},
		Nodes: []*gltf.Node{{
			Mesh:     gltf.Index(0),
			Matrix:   identityMatrix,
			Rotation: [4]float64{0, 0, 0, 1},
			Scale:    [3]float64{1, 1, 1},
		}},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Scene:  gltf.Index(0),
	}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLBGroupsByMaterial(t *testing.T) {
	mesh, err := LoadGLB(writeQuadGLB(t))
	if err != nil {
		t.Fatalf("LoadGLB() error: %v", err)
	}
	if mesh.TriangleCount() != 3 {
		t.Fatalf("TriangleCount() = %d, want 3", mesh.TriangleCount())
	}
	wantGroups := []int{0, 1, 0}
	for i, f := range mesh.Faces {
		if f.Group != wantGroups[i] {
			t.Errorf("face %d group = %d, want %d", i, f.Group, wantGroups[i])
		}
	}
	if mesh.GroupCount() != 2 {
		t.Errorf("GroupCount() = %d, want 2", mesh.GroupCount())
	}
	size := mesh.Size()
	if math.Abs(max(size.X, size.Y, size.Z)-2) > 1e-9 {
		t.Errorf("normalized size = %v, want largest dimension 2", size)
	}
}

func TestLoadGLBMissingFile(t *testing.T) {
	if _, err := LoadGLB(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Errorf("LoadGLB(missing) error = nil, want error")
	}
}
