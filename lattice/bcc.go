// Package lattice generates structured tetrahedral complexes.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/tetsurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// BCC meshes box with the body centered cubic lattice described in
// Tetrahedral Mesh Generation for Deformable Bodies (Molino, Bridson, Fedkiw).
// The box is divided into cubes of side resolution. Every pair of face
// adjacent cubes contributes the four tetrahedra spanned by the two cube
// centers and an edge of their shared face, which results in a conforming
// mesh of isotropic tetrahedra. Node indices of the returned tetrahedra
// refer to the returned nodes and shared nodes are never duplicated.
func BCC(box r3.Box, resolution float64) (nodes []r3.Vec, tetras [][4]int, err error) {
	if resolution <= 0 || math.IsNaN(resolution) {
		return nil, nil, errors.New("resolution must be positive")
	}
	sz := d3.Box(box).Size()
	if d3.LTEZero(sz) {
		return nil, nil, errors.New("box has no volume")
	}
	div := [3]int{
		int(math.Ceil(sz.X / resolution)),
		int(math.Ceil(sz.Y / resolution)),
		int(math.Ceil(sz.Z / resolution)),
	}
	if div[0] < 3 || div[1] < 3 || div[2] < 3 {
		return nil, nil, fmt.Errorf("resolution too low: %v divisions, need at least 3 per axis", div)
	}
	g := newGrid(box.Min, resolution, div)
	nodes, tetras, err = g.mesh()
	if err != nil {
		return nil, nil, err
	}
	return nodes, tetras, nil
}

type corner int

// Cube node indices. Bottom face counter clockwise from the minimum corner
// followed by the top face, same order as d3.Box.Vertices.
const (
	c000 corner = iota
	cx00
	cxy0
	c0y0
	c00z
	cx0z
	cxyz
	c0yz
	cctr // cube center index.
	nCorners
)

var unmeshed = [nCorners]int{-1, -1, -1 /**/, -1, -1, -1 /**/, -1, -1, -1}

type cube struct {
	node [nCorners]int
	pos  r3.Vec
	// face adjacent cubes in the minus and plus directions.
	xp, xm *cube
	yp, ym *cube
	zp, zm *cube
	g      *grid
}

type grid struct {
	cubes      []cube
	div        [3]int
	resolution float64
}

func newGrid(min r3.Vec, resolution float64, div [3]int) *grid {
	g := &grid{
		cubes:      make([]cube, div[0]*div[1]*div[2]),
		div:        div,
		resolution: resolution,
	}
	for i := 0; i < div[0]; i++ {
		x := (float64(i)+0.5)*resolution + min.X
		for j := 0; j < div[1]; j++ {
			y := (float64(j)+0.5)*resolution + min.Y
			for k := 0; k < div[2]; k++ {
				z := (float64(k)+0.5)*resolution + min.Z
				g.set(i, j, k, cube{pos: r3.Vec{X: x, Y: y, Z: z}, g: g, node: unmeshed})
			}
		}
	}
	return g
}

func (g *grid) mesh() (nodes []r3.Vec, tetras [][4]int, err error) {
	tetras = make([][4]int, 0, 12*len(g.cubes))
	g.foreach(func(c *cube) {
		if err != nil {
			return
		}
		vert := c.box().Vertices()
		c.node[cctr] = len(nodes)
		nodes = append(nodes, c.pos)
		for in := c000; in < cctr; in++ {
			var v int
			v, err = c.sharedNode(in)
			if err != nil {
				return
			}
			if v == -1 {
				c.node[in] = len(nodes)
				nodes = append(nodes, vert[in])
			} else {
				c.node[in] = v
			}
		}
		tetras = append(tetras, c.tetras()...)
	})
	return nodes, tetras, err
}

// nodeAt returns the node index of the cube's corner or -1 if the cube
// does not exist or has not been meshed yet.
func (c *cube) nodeAt(idx corner) int {
	if c == nil {
		return -1
	}
	return c.node[idx]
}

// sharedNode returns the index of the corner node if a face adjacent cube
// already meshed it, or -1 otherwise.
func (c *cube) sharedNode(idx corner) (int, error) {
	var nx, ny, nz int
	switch idx {
	case c000:
		nx = c.xm.nodeAt(cx00)
		ny = c.ym.nodeAt(c0y0)
		nz = c.zm.nodeAt(c00z)
	case cx00:
		nx = c.xp.nodeAt(c000)
		ny = c.ym.nodeAt(cxy0)
		nz = c.zm.nodeAt(cx0z)
	case cxy0:
		nx = c.xp.nodeAt(c0y0)
		ny = c.yp.nodeAt(cx00)
		nz = c.zm.nodeAt(cxyz)
	case c0y0:
		nx = c.xm.nodeAt(cxy0)
		ny = c.yp.nodeAt(c000)
		nz = c.zm.nodeAt(c0yz)
	case c00z:
		nx = c.xm.nodeAt(cx0z)
		ny = c.ym.nodeAt(c0yz)
		nz = c.zp.nodeAt(c000)
	case cx0z:
		nx = c.xp.nodeAt(c00z)
		ny = c.ym.nodeAt(cxyz)
		nz = c.zp.nodeAt(cx00)
	case cxyz:
		nx = c.xp.nodeAt(c0yz)
		ny = c.yp.nodeAt(cx0z)
		nz = c.zp.nodeAt(cxy0)
	case c0yz:
		nx = c.xm.nodeAt(cxyz)
		ny = c.yp.nodeAt(c00z)
		nz = c.zp.nodeAt(c0y0)
	default:
		// center node is never shared.
		return -1, nil
	}
	bad := nx >= 0 && ny >= 0 && nx != ny ||
		nx >= 0 && nz >= 0 && nx != nz ||
		nz >= 0 && ny >= 0 && nz != ny
	if bad {
		return -1, fmt.Errorf("corner %d of cube at %v meshed inconsistently by neighbors: %d, %d, %d", idx, c.pos, nx, ny, nz)
	}
	return max(nx, max(ny, nz)), nil
}

// meshed returns true if the cube exists and its center node was assigned.
// Returns false if called on nil cube.
func (c *cube) meshed() bool {
	return c != nil && c.node[cctr] >= 0
}

func (c *cube) box() d3.Box {
	res := c.g.resolution
	return d3.CenteredBox(c.pos, d3.Elem(res))
}

// tetras returns the tetrahedra shared with the already meshed cubes in
// the minus directions. Each pair of cubes is thus meshed exactly once.
func (c *cube) tetras() (tetras [][4]int) {
	ctr := c.node[cctr]
	// Grid is indexed with z as minor dimension so zm is the most recently meshed.
	if c.zm.meshed() {
		zctr := c.zm.node[cctr]
		tetras = append(tetras,
			[4]int{ctr, c.node[c000], c.node[cx00], zctr},
			[4]int{ctr, c.node[cx00], c.node[cxy0], zctr},
			[4]int{ctr, c.node[cxy0], c.node[c0y0], zctr},
			[4]int{ctr, c.node[c0y0], c.node[c000], zctr},
		)
	}
	if c.ym.meshed() {
		yctr := c.ym.node[cctr]
		tetras = append(tetras,
			[4]int{ctr, c.node[cx00], c.node[c000], yctr},
			[4]int{ctr, c.node[cx0z], c.node[cx00], yctr},
			[4]int{ctr, c.node[c00z], c.node[cx0z], yctr},
			[4]int{ctr, c.node[c000], c.node[c00z], yctr},
		)
	}
	if c.xm.meshed() {
		xctr := c.xm.node[cctr]
		tetras = append(tetras,
			[4]int{ctr, c.node[c000], c.node[c0y0], xctr},
			[4]int{ctr, c.node[c00z], c.node[c000], xctr},
			[4]int{ctr, c.node[c0yz], c.node[c00z], xctr},
			[4]int{ctr, c.node[c0y0], c.node[c0yz], xctr},
		)
	}
	return tetras
}

func (g *grid) set(i, j, k int, c cube) {
	ca := g.at(i, j, k)
	*ca = c
	ca.xm = g.at(i-1, j, k)
	if ca.xm != nil {
		ca.xm.xp = ca
	}
	ca.xp = g.at(i+1, j, k)
	if ca.xp != nil {
		ca.xp.xm = ca
	}
	ca.ym = g.at(i, j-1, k)
	if ca.ym != nil {
		ca.ym.yp = ca
	}
	ca.yp = g.at(i, j+1, k)
	if ca.yp != nil {
		ca.yp.ym = ca
	}
	ca.zm = g.at(i, j, k-1)
	if ca.zm != nil {
		ca.zm.zp = ca
	}
	ca.zp = g.at(i, j, k+1)
	if ca.zp != nil {
		ca.zp.zm = ca
	}
}

func (g *grid) at(i, j, k int) *cube {
	if i < 0 || j < 0 || k < 0 || i >= g.div[0] || j >= g.div[1] || k >= g.div[2] {
		return nil
	}
	return &g.cubes[i*g.div[1]*g.div[2]+j*g.div[2]+k]
}

func (g *grid) foreach(f func(c *cube)) {
	for i := range g.cubes {
		f(&g.cubes[i])
	}
}
