package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// TabulatedBSSRDF describes subsurface transport below one shading point. Its radial
// profile comes from a BSSRDFTable shared by the whole material; the per-point part is
// the coefficients evaluated at this point.
type TabulatedBSSRDF struct {
	Point  core.Vec3 // Entry point
	Wo     core.Vec3
	Normal core.Vec3 // Shading normal at the entry point
	SS, TS core.Vec3 // Shading tangents

	Eta      float64
	Mode     TransportMode
	Material Material
	Table    *BSSRDFTable

	SigmaA core.Vec3 // Absorption coefficient, scaled and non-negative
	SigmaS core.Vec3 // Scattering coefficient, scaled and non-negative
	SigmaT core.Vec3 // Extinction, SigmaA + SigmaS
	Rho    core.Vec3 // Single-scattering albedo, 0 where SigmaT is 0
}

func (b *TabulatedBSSRDF) init(si *SurfaceInteraction, mat Material, table *BSSRDFTable,
	sigmaA, sigmaS core.Vec3, eta float64, mode TransportMode) {
	ns := si.Shading.Normal
	ss := si.Shading.DPDU.Normalize()

	b.Point = si.Point
	b.Wo = si.Wo
	b.Normal = ns
	b.SS = ss
	b.TS = ns.Cross(ss)
	b.Eta = eta
	b.Mode = mode
	b.Material = mat
	b.Table = table
	b.SigmaA = sigmaA
	b.SigmaS = sigmaS
	b.SigmaT = sigmaA.Add(sigmaS)
	b.Rho = core.NewVec3(
		albedo(sigmaS.X, b.SigmaT.X),
		albedo(sigmaS.Y, b.SigmaT.Y),
		albedo(sigmaS.Z, b.SigmaT.Z),
	)
}

func albedo(sigmaS, sigmaT float64) float64 {
	if sigmaT == 0 {
		return 0
	}
	return sigmaS / sigmaT
}

// EffectiveAlbedo returns the total diffuse reflectance of the medium per channel, looked
// up from the shared profile table.
func (b *TabulatedBSSRDF) EffectiveAlbedo() core.Vec3 {
	if b.Table == nil {
		return core.Vec3{}
	}
	return core.NewVec3(
		b.Table.EffectiveAlbedo(b.Rho.X),
		b.Table.EffectiveAlbedo(b.Rho.Y),
		b.Table.EffectiveAlbedo(b.Rho.Z),
	)
}

// MeanFreePath returns 1/SigmaT per channel; channels with no extinction report 0
func (b *TabulatedBSSRDF) MeanFreePath() core.Vec3 {
	inv := func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return 1 / x
	}
	return core.NewVec3(inv(b.SigmaT.X), inv(b.SigmaT.Y), inv(b.SigmaT.Z))
}
