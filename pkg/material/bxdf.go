package material

import (
	"math"
	"strings"

	"github.com/df07/go-translucent/pkg/core"
)

// BxDFType classifies a scattering lobe
type BxDFType int

const (
	BxDFReflection BxDFType = 1 << iota
	BxDFTransmission
	BxDFDiffuse
	BxDFGlossy
	BxDFSpecular

	BxDFAll = BxDFReflection | BxDFTransmission | BxDFDiffuse | BxDFGlossy | BxDFSpecular
)

func (t BxDFType) String() string {
	var parts []string
	names := []struct {
		flag BxDFType
		name string
	}{
		{BxDFReflection, "reflection"},
		{BxDFTransmission, "transmission"},
		{BxDFDiffuse, "diffuse"},
		{BxDFGlossy, "glossy"},
		{BxDFSpecular, "specular"},
	}
	for _, n := range names {
		if t&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// BxDFSample is the result of sampling a lobe
type BxDFSample struct {
	Wi   core.Vec3 // Sampled incident direction (local shading space)
	F    core.Vec3 // Value of the lobe for (wo, wi)
	PDF  float64   // Discrete probability for specular lobes, density otherwise
	Type BxDFType  // Type of the lobe that produced the sample
}

// BxDF is a single scattering lobe. Directions are expressed in the local shading
// frame where the shading normal is +Z.
type BxDF interface {
	Type() BxDFType
	F(wo, wi core.Vec3) core.Vec3
	Sample(wo core.Vec3, u core.Vec2) (BxDFSample, bool)
	PDF(wo, wi core.Vec3) float64
}

func matchesFlags(b BxDF, flags BxDFType) bool {
	return b.Type()&flags == b.Type()
}

func cosTheta(w core.Vec3) float64    { return w.Z }
func absCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }

// refract bends wi through an interface with normal n; eta is the ratio etaI/etaT.
// Returns false on total internal reflection.
func refract(wi, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wi.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)), true
}

// etasFor returns the incident and transmitted indices for light leaving along wo
func etasFor(wo core.Vec3, etaA, etaB float64) (etaI, etaT float64) {
	if cosTheta(wo) > 0 {
		return etaA, etaB
	}
	return etaB, etaA
}

// SpecularReflection is a perfect mirror lobe weighted by a Fresnel term
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() BxDFType { return BxDFReflection | BxDFSpecular }

// F is zero: a delta lobe is only reachable through Sample
func (s *SpecularReflection) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *SpecularReflection) PDF(wo, wi core.Vec3) float64 { return 0 }

// Sample returns the mirror direction
func (s *SpecularReflection) Sample(wo core.Vec3, u core.Vec2) (BxDFSample, bool) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	c := absCosTheta(wi)
	if c == 0 {
		return BxDFSample{}, false
	}
	f := s.Fresnel.Evaluate(cosTheta(wi)).MultiplyVec(s.R).Multiply(1 / c)
	return BxDFSample{Wi: wi, F: f, PDF: 1, Type: s.Type()}, true
}

// SpecularTransmission is a perfect refraction lobe through a dielectric interface
type SpecularTransmission struct {
	T          core.Vec3
	EtaA, EtaB float64 // Index above (outside) and below (inside) the surface
	Fresnel    FresnelDielectric
	Mode       TransportMode
}

// NewSpecularTransmission creates a transmission lobe between media etaA and etaB
func NewSpecularTransmission(t core.Vec3, etaA, etaB float64, mode TransportMode) SpecularTransmission {
	return SpecularTransmission{
		T:       t,
		EtaA:    etaA,
		EtaB:    etaB,
		Fresnel: FresnelDielectric{EtaI: etaA, EtaT: etaB},
		Mode:    mode,
	}
}

func (s *SpecularTransmission) Type() BxDFType { return BxDFTransmission | BxDFSpecular }

func (s *SpecularTransmission) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (s *SpecularTransmission) PDF(wo, wi core.Vec3) float64 { return 0 }

// Sample returns the refracted direction, or false on total internal reflection
func (s *SpecularTransmission) Sample(wo core.Vec3, u core.Vec2) (BxDFSample, bool) {
	etaI, etaT := etasFor(wo, s.EtaA, s.EtaB)
	wi, ok := refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok {
		return BxDFSample{}, false
	}
	ft := s.T.MultiplyVec(core.NewVec3(1, 1, 1).Subtract(s.Fresnel.Evaluate(cosTheta(wi))))
	ft = scaleForMode(ft, etaI, etaT, s.Mode)
	return BxDFSample{Wi: wi, F: ft.Multiply(1 / absCosTheta(wi)), PDF: 1, Type: s.Type()}, true
}

// FresnelSpecular combines specular reflection and transmission, choosing between them
// in proportion to the dielectric Fresnel reflectance.
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       TransportMode
}

func (f *FresnelSpecular) Type() BxDFType {
	return BxDFReflection | BxDFTransmission | BxDFSpecular
}

func (f *FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 { return core.Vec3{} }

func (f *FresnelSpecular) PDF(wo, wi core.Vec3) float64 { return 0 }

// Sample reflects when u.X falls below the Fresnel reflectance and refracts otherwise
func (f *FresnelSpecular) Sample(wo core.Vec3, u core.Vec2) (BxDFSample, bool) {
	fr := FrDielectric(cosTheta(wo), f.EtaA, f.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		c := absCosTheta(wi)
		if c == 0 {
			return BxDFSample{}, false
		}
		return BxDFSample{
			Wi:   wi,
			F:    f.R.Multiply(fr / c),
			PDF:  fr,
			Type: BxDFReflection | BxDFSpecular,
		}, true
	}

	etaI, etaT := etasFor(wo, f.EtaA, f.EtaB)
	wi, ok := refract(wo, core.NewVec3(0, 0, 1).FaceForward(wo), etaI/etaT)
	if !ok {
		return BxDFSample{}, false
	}
	ft := scaleForMode(f.T.Multiply(1-fr), etaI, etaT, f.Mode)
	return BxDFSample{
		Wi:   wi,
		F:    ft.Multiply(1 / absCosTheta(wi)),
		PDF:  1 - fr,
		Type: BxDFTransmission | BxDFSpecular,
	}, true
}

// scaleForMode applies the radiance compression across a refractive boundary.
// Importance is not scaled.
func scaleForMode(ft core.Vec3, etaI, etaT float64, mode TransportMode) core.Vec3 {
	if mode == Radiance {
		return ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft
}
