package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/cubeportal/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files. Face groups follow the file's
// `usemtl` and `g` statements: every distinct material (or group name, when
// no material is active) becomes one selectable group, numbered in the order
// it is first used by a face.
type OBJLoader struct {
	// Size is the edge length the model is normalized to (0 keeps the
	// original scale).
	Size float64
}

// NewOBJLoader creates a loader that normalizes models to the default cube
// size.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{Size: 2}
}

// LoadOBJ loads an OBJ file with default options.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return l.Load(f, filepath.Base(path))
}

// objGroups hands out group indices by name in first-use order.
type objGroups struct {
	byName map[string]int
}

func (g *objGroups) index(name string) int {
	if idx, ok := g.byName[name]; ok {
		return idx
	}
	idx := len(g.byName)
	g.byName[name] = idx
	return idx
}

// Load parses an OBJ from a reader.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	var positions []math3d.Vec3
	var normals []math3d.Vec3

	// OBJ indexes position and normal separately; vertices never cross groups.
	type objVertexKey struct {
		group, pos, normal int
	}
	vertexMap := make(map[objVertexKey]int)
	groups := &objGroups{byName: make(map[string]int)}
	current := ""

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseOBJVec3(fields, lineNum, "vertex")
			if err != nil {
				return nil, err
			}
			positions = append(positions, v)

		case "vn":
			n, err := parseOBJVec3(fields, lineNum, "normal")
			if err != nil {
				return nil, err
			}
			normals = append(normals, n.Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			group := groups.index(current)

			faceVerts := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				posIdx, normalIdx, err := parseFaceVertex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				posIdx = resolveIndex(posIdx, len(positions))
				normalIdx = resolveIndex(normalIdx, len(normals))
				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx+1)
				}
				if normalIdx >= len(normals) {
					normalIdx = -1
				}

				key := objVertexKey{group, posIdx, normalIdx}
				vertIdx, ok := vertexMap[key]
				if !ok {
					vert := MeshVertex{Position: positions[posIdx]}
					if normalIdx >= 0 {
						vert.Normal = normals[normalIdx]
					}
					vertIdx = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, vert)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			// Fan triangulation; OBJ winding is already counter-clockwise.
			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:     [3]int{faceVerts[0], faceVerts[i], faceVerts[i+1]},
					Group: group,
				})
			}

		case "usemtl", "g":
			current = strings.Join(fields[1:], " ")

		case "o":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// vt, mtllib, s and the rest carry nothing the scene uses.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("obj %s: no faces", name)
	}

	mesh.RemoveDegenerateFaces()
	mesh.RemoveUnreferencedVertices()
	if len(normals) == 0 {
		mesh.CalculateNormals()
	}
	if l.Size > 0 {
		mesh.Normalize(l.Size)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

func parseOBJVec3(fields []string, lineNum int, what string) (math3d.Vec3, error) {
	if len(fields) < 4 {
		return math3d.Vec3{}, fmt.Errorf("line %d: invalid %s (need x y z)", lineNum, what)
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("line %d: invalid %s coordinate: %w", lineNum, what, err)
		}
		v[i] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

// parseFaceVertex parses v, v/vt, v/vt/vn or v//vn and returns the 1-indexed
// position and normal (0 when absent). Texture indices are validated and
// dropped.
func parseFaceVertex(s string) (pos, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}
	if len(parts) > 1 && parts[1] != "" {
		if _, err := strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}
	return pos, normal, nil
}

// resolveIndex converts a 1-indexed or negative OBJ index to 0-indexed.
// Returns -1 for 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}
