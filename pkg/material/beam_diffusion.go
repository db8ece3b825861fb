package material

import (
	"math"
)

const (
	inv4Pi               = 1 / (4 * math.Pi)
	beamDiffusionSamples = 100
)

// BeamDiffusionMS returns the multiple-scattering radiant exitance at distance r from a
// beam entering a medium with the given coefficients (photon beam diffusion).
func BeamDiffusionMS(sigmaS, sigmaA, g, eta, r float64) float64 {
	// Reduced scattering coefficients
	sigmapS := sigmaS * (1 - g)
	sigmapT := sigmaA + sigmapS
	rhop := sigmapS / sigmapT

	// Non-classical diffusion coefficient (Grosjean) and effective transport coefficient
	dG := (2*sigmaA + sigmapT) / (3 * sigmapT * sigmapT)
	sigmaTr := safeSqrt(sigmaA / dG)

	// Linear extrapolation distance from the Fresnel moments
	fm1, fm2 := FresnelMoment1(eta), FresnelMoment2(eta)
	ze := -2 * dG * (1 + 3*fm2) / (1 - 2*fm1)

	// Exitance scale factors for fluence and flux
	cPhi := 0.25 * (1 - 2*fm1)
	cE := 0.5 * (1 - 3*fm2)

	ed := 0.0
	for i := 0; i < beamDiffusionSamples; i++ {
		// Real and virtual point source depths
		zr := -math.Log(1-(float64(i)+0.5)/beamDiffusionSamples) / sigmapT
		zv := -zr + 2*ze
		dr := math.Sqrt(r*r + zr*zr)
		dv := math.Sqrt(r*r + zv*zv)

		phiD := inv4Pi / dG * (math.Exp(-sigmaTr*dr)/dr - math.Exp(-sigmaTr*dv)/dv)
		edn := inv4Pi * (zr*(1+sigmaTr*dr)*math.Exp(-sigmaTr*dr)/(dr*dr*dr) -
			zv*(1+sigmaTr*dv)*math.Exp(-sigmaTr*dv)/(dv*dv*dv))
		e := phiD*cPhi + edn*cE

		kappa := 1 - math.Exp(-2*sigmapT*(dr+zr))
		ed += kappa * rhop * rhop * e
	}
	return ed / beamDiffusionSamples
}

// BeamDiffusionSS returns the single-scattering radiant exitance at distance r
func BeamDiffusionSS(sigmaS, sigmaA, g, eta, r float64) float64 {
	sigmaT := sigmaA + sigmaS
	rho := sigmaS / sigmaT

	// Minimum depth from which light can still refract out at distance r
	tCrit := r * safeSqrt(eta*eta-1)

	ess := 0.0
	for i := 0; i < beamDiffusionSamples; i++ {
		ti := tCrit - math.Log(1-(float64(i)+0.5)/beamDiffusionSamples)/sigmaT
		d := math.Sqrt(r*r + ti*ti)
		cosThetaO := ti / d

		ess += rho * math.Exp(-sigmaT*(d+tCrit)) / (d * d) *
			PhaseHG(cosThetaO, g) * (1 - FrDielectric(-cosThetaO, 1, eta)) * math.Abs(cosThetaO)
	}
	return ess / beamDiffusionSamples
}

// PhaseHG is the Henyey-Greenstein phase function
func PhaseHG(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return inv4Pi * (1 - g*g) / (denom * math.Sqrt(denom))
}

func safeSqrt(x float64) float64 {
	return math.Sqrt(math.Max(0, x))
}
