package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/cubeportal/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a grouped Mesh. Primitives sharing a
// material form one selectable group; primitives without a material each get
// their own group.
type GLTFLoader struct {
	// Size is the edge length the model is normalized to (0 keeps the
	// original scale).
	Size float64
}

// NewGLTFLoader creates a loader that normalizes models to the default cube
// size.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{Size: 2}
}

// LoadGLB loads a binary GLTF (.glb) file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	groups := newGroupAssigner()

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			if err := l.processNode(doc, int(nodeIdx), math3d.Identity(), mesh, groups); err != nil {
				return nil, err
			}
		}
	} else {
		for _, i := range rootNodes(doc) {
			if err := l.processNode(doc, i, math3d.Identity(), mesh, groups); err != nil {
				return nil, err
			}
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("gltf %s: no triangle geometry", path)
	}

	mesh.RemoveDegenerateFaces()
	mesh.RemoveUnreferencedVertices()
	mesh.CalculateNormals()
	if l.Size > 0 {
		mesh.Normalize(l.Size)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// groupAssigner maps materials to dense group indices in first-seen order.
type groupAssigner struct {
	byMaterial map[int]int
	next       int
}

func newGroupAssigner() *groupAssigner {
	return &groupAssigner{byMaterial: make(map[int]int)}
}

func (g *groupAssigner) assign(material *int) int {
	if material == nil {
		g.next++
		return g.next - 1
	}
	if group, ok := g.byMaterial[int(*material)]; ok {
		return group
	}
	g.byMaterial[int(*material)] = g.next
	g.next++
	return g.next - 1
}

// rootNodes returns nodes that are nobody's child.
func rootNodes(doc *gltf.Document) []int {
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, child := range n.Children {
			isChild[int(child)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// processNode recursively processes a node and its children, accumulating transforms.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parentTransform math3d.Mat4, mesh *Mesh, groups *groupAssigner) error {
	node := doc.Nodes[nodeIdx]

	var localTransform math3d.Mat4
	if node.Matrix != identityMatrix && node.Matrix != [16]float64{} {
		localTransform = math3d.Mat4FromColumnMajor(node.Matrix[:])
	} else {
		localTransform = math3d.Translate(math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2]))
		if node.Rotation != [4]float64{0, 0, 0, 1} && node.Rotation != [4]float64{} {
			localTransform = localTransform.Mul(math3d.QuatToMat4(
				node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]))
		}
		if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{0, 0, 0} {
			localTransform = localTransform.Mul(math3d.Scale(math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])))
		}
	}

	worldTransform := parentTransform.Mul(localTransform)

	if node.Mesh != nil {
		if err := processMesh(doc, doc.Meshes[int(*node.Mesh)], mesh, worldTransform, groups); err != nil {
			return err
		}
	}

	for _, childIdx := range node.Children {
		if err := l.processNode(doc, int(childIdx), worldTransform, mesh, groups); err != nil {
			return err
		}
	}
	return nil
}

// processMesh appends a GLTF mesh's triangle primitives, transformed to model space.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, transform math3d.Mat4, groups *groupAssigner) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, int(posIdx))
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		group := groups.assign(prim.Material)
		baseVertex := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: transform.MulVec3(p)})
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, int(*prim.Indices))
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V:     [3]int{baseVertex + indices[i], baseVertex + indices[i+1], baseVertex + indices[i+2]},
				Group: group,
			})
		}
	}
	return nil
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

// readIndices reads scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		off := i * stride
		switch size {
		case 1:
			result[i] = int(data[off])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's slice of its embedded buffer and the
// element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[int(*accessor.BufferView)]
	buffer := doc.Buffers[int(bufferView.Buffer)]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no embedded data (external buffers are not supported)")
	}

	stride := int(bufferView.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(bufferView.ByteOffset) + int(accessor.ByteOffset)
	end := start + stride*(int(accessor.Count)-1) + elemSize
	if accessor.Count == 0 {
		end = start
	}
	if start < 0 || end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d,%d) exceeds buffer of %d bytes", start, end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
