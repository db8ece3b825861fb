package material

import (
	"math"

	"github.com/df07/go-translucent/pkg/core"
)

// Fresnel computes the fraction of light reflected at an interface
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FresnelDielectric is the unpolarized Fresnel reflectance between two dielectrics
type FresnelDielectric struct {
	EtaI, EtaT float64
}

// Evaluate returns the reflectance for the given cosine of the incident angle
func (f *FresnelDielectric) Evaluate(cosThetaI float64) core.Vec3 {
	r := FrDielectric(cosThetaI, f.EtaI, f.EtaT)
	return core.NewVec3(r, r, r)
}

// FrDielectric evaluates the exact Fresnel equations for a dielectric interface.
// A negative cosThetaI means the light arrives from the etaT side.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = max(-1, min(1, cosThetaI))
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	// Snell's law
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI

	// Total internal reflection
	if sinThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FresnelMoment1 is the first moment of the dielectric Fresnel reflectance, fitted polynomially
func FresnelMoment1(eta float64) float64 {
	eta2, eta3, eta4, eta5 := eta*eta, eta*eta*eta, eta*eta*eta*eta, eta*eta*eta*eta*eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 + 2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 - 1.27198*eta4 + 0.12746*eta5
}

// FresnelMoment2 is the second moment of the dielectric Fresnel reflectance
func FresnelMoment2(eta float64) float64 {
	eta2, eta3, eta4, eta5 := eta*eta, eta*eta*eta, eta*eta*eta*eta, eta*eta*eta*eta*eta
	if eta < 1 {
		return 0.27614 - 0.87350*eta + 1.12077*eta2 - 0.65095*eta3 + 0.07883*eta4 + 0.04860*eta5
	}
	rEta := 1 / eta
	rEta2, rEta3 := rEta*rEta, rEta*rEta*rEta
	return -547.033 + 45.3087*rEta3 - 218.725*rEta2 + 458.843*rEta + 404.557*eta - 189.519*eta2 +
		54.9327*eta3 - 9.00603*eta4 + 0.63942*eta5
}
