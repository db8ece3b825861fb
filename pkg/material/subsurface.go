package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// Profile table resolution
const (
	profileRhoSamples    = 100
	profileRadiusSamples = 64
)

// SubsurfaceMaterial is a translucent material: a smooth dielectric boundary over a
// homogeneous-per-point scattering medium. It is immutable once constructed and may be
// shared by any number of shading goroutines.
type SubsurfaceMaterial struct {
	scale   float64
	eta     float64
	g       float64
	kr, kt  ColorSource
	sigmaA  ColorSource
	sigmaS  ColorSource
	bumpMap FloatSource
	table   *BSSRDFTable
}

// NewSubsurfaceMaterial creates a subsurface material and computes its profile table.
// bumpMap may be nil.
func NewSubsurfaceMaterial(scale float64, kr, kt, sigmaA, sigmaS ColorSource, g, eta float64, bumpMap FloatSource) *SubsurfaceMaterial {
	return newSubsurfaceMaterial(scale, kr, kt, sigmaA, sigmaS, g, eta, bumpMap, ComputeProfileTable(g, eta))
}

func newSubsurfaceMaterial(scale float64, kr, kt, sigmaA, sigmaS ColorSource, g, eta float64,
	bumpMap FloatSource, table *BSSRDFTable) *SubsurfaceMaterial {
	return &SubsurfaceMaterial{
		scale:   scale,
		eta:     eta,
		g:       g,
		kr:      kr,
		kt:      kt,
		sigmaA:  sigmaA,
		sigmaS:  sigmaS,
		bumpMap: bumpMap,
		table:   table,
	}
}

// ComputeProfileTable tabulates the beam diffusion profile for phase asymmetry g and
// relative index of refraction eta.
func ComputeProfileTable(g, eta float64) *BSSRDFTable {
	table := NewBSSRDFTable(profileRhoSamples, profileRadiusSamples)
	ComputeBeamDiffusionBSSRDF(g, eta, table)
	return table
}

func (m *SubsurfaceMaterial) Scale() float64       { return m.scale }
func (m *SubsurfaceMaterial) Eta() float64         { return m.eta }
func (m *SubsurfaceMaterial) G() float64           { return m.g }
func (m *SubsurfaceMaterial) Kr() ColorSource      { return m.kr }
func (m *SubsurfaceMaterial) Kt() ColorSource      { return m.kt }
func (m *SubsurfaceMaterial) SigmaA() ColorSource  { return m.sigmaA }
func (m *SubsurfaceMaterial) SigmaS() ColorSource  { return m.sigmaS }
func (m *SubsurfaceMaterial) BumpMap() FloatSource { return m.bumpMap }
func (m *SubsurfaceMaterial) Table() *BSSRDFTable  { return m.table }

// ComputeScatteringFunctions attaches the specular boundary BSDF and the tabulated BSSRDF
// to si. With allowMultipleLobes a single FresnelSpecular lobe handles both reflection and
// transmission; otherwise separate lobes are added for the non-black tints only.
func (m *SubsurfaceMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	// Perturb the frame first so every lookup below sees the bumped geometry
	if m.bumpMap != nil {
		Bump(m.bumpMap, si)
	}

	r := m.kr.Evaluate(si.UV, si.Point).ClampNonNegative()
	t := m.kt.Evaluate(si.UV, si.Point).ClampNonNegative()

	si.BSDF = arena.NewBSDF(si, m.eta)
	addSpecularLobes(si.BSDF, arena, r, t, m.eta, mode, allowMultipleLobes)

	sigA := m.evaluateCoefficient(m.sigmaA, si)
	sigS := m.evaluateCoefficient(m.sigmaS, si)
	si.BSSRDF = arena.NewTabulatedBSSRDF(si, m, m.table, sigA, sigS, m.eta, mode)
}

func (m *SubsurfaceMaterial) evaluateCoefficient(tex ColorSource, si *SurfaceInteraction) core.Vec3 {
	return tex.Evaluate(si.UV, si.Point).Multiply(m.scale).ClampNonNegative()
}
