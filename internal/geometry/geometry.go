// SPDX-License-Identifier: MIT

// Package geometry builds the wireframe meshes of the scene: a box and a
// dodecahedron, each as a vertex list plus the unique edges of its
// triangulated faces.
package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Edge joins two vertex indices, lower index first.
type Edge [2]int

// Mesh is an indexed, triangulated solid.
type Mesh struct {
	Name      string
	Vertices  []r3.Vec
	Triangles [][3]int
}

// Wireframe returns every triangle edge once, sorted for stable output.
// Quads therefore show their diagonal and pentagons their fan.
func (m *Mesh) Wireframe() []Edge {
	seen := make(map[Edge]struct{}, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		for i := range 3 {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			seen[Edge{a, b}] = struct{}{}
		}
	}

	edges := make([]Edge, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// Box returns an axis-aligned cube with the given edge length centred on
// the origin. Each face is split into two triangles.
func Box(size float64) *Mesh {
	h := size / 2
	vertices := []r3.Vec{
		{X: -h, Y: -h, Z: -h}, // 0
		{X: h, Y: -h, Z: -h},  // 1
		{X: h, Y: h, Z: -h},   // 2
		{X: -h, Y: h, Z: -h},  // 3
		{X: -h, Y: -h, Z: h},  // 4
		{X: h, Y: -h, Z: h},   // 5
		{X: h, Y: h, Z: h},    // 6
		{X: -h, Y: h, Z: h},   // 7
	}

	quads := [][4]int{
		{4, 5, 6, 7}, // +z
		{1, 0, 3, 2}, // -z
		{5, 1, 2, 6}, // +x
		{0, 4, 7, 3}, // -x
		{7, 6, 2, 3}, // +y
		{0, 1, 5, 4}, // -y
	}

	triangles := make([][3]int, 0, len(quads)*2)
	for _, q := range quads {
		triangles = append(triangles, [3]int{q[0], q[1], q[3]}, [3]int{q[1], q[2], q[3]})
	}

	return &Mesh{Name: "box", Vertices: vertices, Triangles: triangles}
}

// Dodecahedron returns a regular dodecahedron whose vertices lie on a sphere
// of the given radius. Each pentagon is fanned into three triangles.
func Dodecahedron(radius float64) *Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	r := 1 / phi

	raw := []r3.Vec{
		// (±1, ±1, ±1)
		{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1},
		// (0, ±1/φ, ±φ)
		{X: 0, Y: -r, Z: -phi}, {X: 0, Y: -r, Z: phi}, {X: 0, Y: r, Z: -phi}, {X: 0, Y: r, Z: phi},
		// (±1/φ, ±φ, 0)
		{X: -r, Y: -phi, Z: 0}, {X: -r, Y: phi, Z: 0}, {X: r, Y: -phi, Z: 0}, {X: r, Y: phi, Z: 0},
		// (±φ, 0, ±1/φ)
		{X: -phi, Y: 0, Z: -r}, {X: phi, Y: 0, Z: -r}, {X: -phi, Y: 0, Z: r}, {X: phi, Y: 0, Z: r},
	}

	vertices := make([]r3.Vec, len(raw))
	for i, v := range raw {
		vertices[i] = r3.Scale(radius, r3.Unit(v))
	}

	triangles := [][3]int{
		{3, 11, 7}, {3, 7, 15}, {3, 15, 13},
		{7, 19, 17}, {7, 17, 6}, {7, 6, 15},
		{17, 4, 8}, {17, 8, 10}, {17, 10, 6},
		{8, 0, 16}, {8, 16, 2}, {8, 2, 10},
		{0, 12, 1}, {0, 1, 18}, {0, 18, 16},
		{6, 10, 2}, {6, 2, 13}, {6, 13, 15},
		{2, 16, 18}, {2, 18, 3}, {2, 3, 13},
		{18, 1, 9}, {18, 9, 11}, {18, 11, 3},
		{4, 14, 12}, {4, 12, 0}, {4, 0, 8},
		{11, 9, 5}, {11, 5, 19}, {11, 19, 7},
		{19, 5, 14}, {19, 14, 4}, {19, 4, 17},
		{1, 12, 14}, {1, 14, 5}, {1, 5, 9},
	}

	return &Mesh{Name: "dodecahedron", Vertices: vertices, Triangles: triangles}
}
