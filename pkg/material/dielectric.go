package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// Dielectric represents a smooth transparent material like glass that can both reflect
// and refract. It shares the boundary model of SubsurfaceMaterial but has no medium below.
type Dielectric struct {
	Kr, Kt  ColorSource // Reflection and transmission tints
	Eta     float64     // Index of refraction (e.g., 1.5 for glass)
	BumpMap FloatSource // Optional
}

// NewDielectric creates a new untinted dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	white := NewSolidColor(core.NewVec3(1, 1, 1))
	return &Dielectric{Kr: white, Kt: white, Eta: refractiveIndex}
}

// ComputeScatteringFunctions implements the Material interface
func (d *Dielectric) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	if d.BumpMap != nil {
		Bump(d.BumpMap, si)
	}
	r := d.Kr.Evaluate(si.UV, si.Point).ClampNonNegative()
	t := d.Kt.Evaluate(si.UV, si.Point).ClampNonNegative()

	si.BSDF = arena.NewBSDF(si, d.Eta)
	addSpecularLobes(si.BSDF, arena, r, t, d.Eta, mode, allowMultipleLobes)
}

// addSpecularLobes attaches the smooth dielectric boundary lobes. Merged sampling uses one
// FresnelSpecular lobe; otherwise reflection and transmission are added only when their
// tint is non-black.
func addSpecularLobes(bsdf *BSDF, arena *Arena, r, t core.Vec3, eta float64, mode TransportMode, allowMultipleLobes bool) {
	if allowMultipleLobes {
		bsdf.Add(arena.NewFresnelSpecular(r, t, 1, eta, mode))
		return
	}
	if !r.IsBlack() {
		bsdf.Add(arena.NewSpecularReflection(r, arena.NewFresnelDielectric(1, eta)))
	}
	if !t.IsBlack() {
		bsdf.Add(arena.NewSpecularTransmission(t, 1, eta, mode))
	}
}
