package shading

import (
	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

// QuadSurface is the unit square on the z=0 plane, with uv equal to (x, y). It is the
// surface the shading grid is laid over.
type QuadSurface struct {
	Wo core.Vec3 // Direction towards the viewer, normalized on use
}

// NewQuadSurface creates a quad viewed from straight above
func NewQuadSurface() *QuadSurface {
	return &QuadSurface{Wo: core.NewVec3(0, 0, 1)}
}

// Interaction returns the shading point at the center of cell (i, j) of an n x n grid
func (q *QuadSurface) Interaction(i, j, n int) material.SurfaceInteraction {
	u := (float64(i) + 0.5) / float64(n)
	v := (float64(j) + 0.5) / float64(n)
	return material.NewSurfaceInteraction(
		core.NewVec3(u, v, 0),
		core.NewVec2(u, v),
		q.Wo.Normalize(),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.Vec3{},
		core.Vec3{},
	)
}
