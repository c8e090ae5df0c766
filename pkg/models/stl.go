package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/cubeportal/pkg/math3d"
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary
// formats. STL carries no materials, so each facet is assigned to the cube
// face group its normal points at most: +X, -X, +Y, -Y, +Z, -Z.
type STLLoader struct {
	// Size is the edge length the model is normalized to (0 keeps the
	// original scale).
	Size float64
	// MergeTolerance is the distance under which vertices of the same
	// group are merged (0 = exact match).
	MergeTolerance float64
}

// vertexKey identifies a vertex within a group by its quantized position.
type vertexKey struct {
	group   int
	x, y, z int64
}

func quantizePosition(group int, pos math3d.Vec3, tolerance float64) vertexKey {
	if tolerance <= 0 {
		tolerance = 1e-12
	}
	scale := 1.0 / tolerance
	return vertexKey{
		group: group,
		x:     int64(math.Round(pos.X * scale)),
		y:     int64(math.Round(pos.Y * scale)),
		z:     int64(math.Round(pos.Z * scale)),
	}
}

// NewSTLLoader creates a loader that normalizes models to the default cube
// size.
func NewSTLLoader() *STLLoader {
	return &STLLoader{Size: 2}
}

// LoadSTL loads an STL file with default options.
func LoadSTL(path string) (*Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	return l.LoadBytes(data, filepath.Base(path))
}

// Load parses STL from a reader.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	return l.LoadBytes(data, name)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	b := &stlBuilder{mesh: NewMesh(name), index: make(map[vertexKey]int), tolerance: l.MergeTolerance}
	var err error
	if isBinarySTL(data) {
		err = b.parseBinary(data)
	} else {
		err = b.parseASCII(data)
	}
	if err != nil {
		return nil, err
	}
	if len(b.mesh.Faces) == 0 {
		return nil, fmt.Errorf("stl %s: no triangles", name)
	}
	b.mesh.RemoveDegenerateFaces()
	b.mesh.RemoveUnreferencedVertices()
	b.mesh.CalculateNormals()
	if l.Size > 0 {
		b.mesh.Normalize(l.Size)
	} else {
		b.mesh.CalculateBounds()
	}
	return b.mesh, nil
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return true
	}
	// "solid" may also open a binary header; trust the size check.
	triCount := binary.LittleEndian.Uint32(data[80:84])
	return uint64(len(data)) == 84+uint64(triCount)*50
}

// axisGroup returns the cube face group whose outward axis is closest to n.
func axisGroup(n math3d.Vec3) int {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		if n.X >= 0 {
			return FacePosX
		}
		return FaceNegX
	case ay >= az:
		if n.Y >= 0 {
			return FacePosY
		}
		return FaceNegY
	default:
		if n.Z >= 0 {
			return FacePosZ
		}
		return FaceNegZ
	}
}

type stlBuilder struct {
	mesh      *Mesh
	index     map[vertexKey]int
	tolerance float64
}

// addFacet appends a counter-clockwise triangle. The file normal decides
// the group; when it is missing the winding does.
func (b *stlBuilder) addFacet(normal math3d.Vec3, p [3]math3d.Vec3) {
	if normal.LenSq() == 0 {
		normal = p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	}
	group := axisGroup(normal)
	var face Face
	face.Group = group
	for i, pos := range p {
		key := quantizePosition(group, pos, b.tolerance)
		idx, ok := b.index[key]
		if !ok {
			idx = len(b.mesh.Vertices)
			b.mesh.Vertices = append(b.mesh.Vertices, MeshVertex{Position: pos})
			b.index[key] = idx
		}
		face.V[i] = idx
	}
	b.mesh.Faces = append(b.mesh.Faces, face)
}

func (b *stlBuilder) parseBinary(data []byte) error {
	triCount := binary.LittleEndian.Uint32(data[80:84])
	if expected := 84 + uint64(triCount)*50; uint64(len(data)) < expected {
		return fmt.Errorf("binary stl truncated: expected %d bytes, got %d", expected, len(data))
	}
	vec := func(off int) math3d.Vec3 {
		return math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	offset := 84
	for range triCount {
		normal := vec(offset)
		b.addFacet(normal, [3]math3d.Vec3{vec(offset + 12), vec(offset + 24), vec(offset + 36)})
		offset += 50 // normal, 3 vertices, attribute byte count
	}
	return nil
}

func (b *stlBuilder) parseASCII(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var normal math3d.Vec3
	var verts []math3d.Vec3
	inFacet, inLoop := false, false

	parseVec := func(fields []string, what string) (math3d.Vec3, error) {
		var v [3]float64
		for i := range v {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return math3d.Vec3{}, fmt.Errorf("line %d: invalid %s: %w", lineNum, what, err)
			}
			v[i] = f
		}
		return math3d.V3(v[0], v[1], v[2]), nil
	}

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				b.mesh.Name = fields[1]
			}

		case "facet":
			normal = math3d.Vec3{}
			if len(fields) >= 5 && strings.EqualFold(fields[1], "normal") {
				n, err := parseVec(fields[2:5], "normal")
				if err != nil {
					return err
				}
				normal = n
			}
			inFacet = true
			verts = verts[:0]

		case "outer":
			if len(fields) >= 2 && strings.EqualFold(fields[1], "loop") {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			v, err := parseVec(fields[1:4], "vertex")
			if err != nil {
				return err
			}
			verts = append(verts, v)

		case "endloop":
			inLoop = false

		case "endfacet":
			// Polygons with more than three vertices are fanned.
			for i := 2; i < len(verts); i++ {
				b.addFacet(normal, [3]math3d.Vec3{verts[0], verts[i-1], verts[i]})
			}
			inFacet = false
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ascii stl: %w", err)
	}
	return nil
}
