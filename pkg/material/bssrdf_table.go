package material

import (
	"math"
	"runtime"
	"sync"
)

// BSSRDFTable is a tabulated radial scattering profile, indexed by single-scattering
// albedo and radius (in units of mean free path). One table is shared by every shading
// point of a material and is never modified after it has been computed.
type BSSRDFTable struct {
	RhoSamples    []float64
	RadiusSamples []float64
	Profile       []float64 // len(RhoSamples) rows of len(RadiusSamples)
	RhoEff        []float64 // Effective albedo per row
	ProfileCDF    []float64 // Running integral of each Profile row
}

// NewBSSRDFTable allocates an empty table with the given resolution
func NewBSSRDFTable(nRhoSamples, nRadiusSamples int) *BSSRDFTable {
	return &BSSRDFTable{
		RhoSamples:    make([]float64, nRhoSamples),
		RadiusSamples: make([]float64, nRadiusSamples),
		Profile:       make([]float64, nRhoSamples*nRadiusSamples),
		RhoEff:        make([]float64, nRhoSamples),
		ProfileCDF:    make([]float64, nRhoSamples*nRadiusSamples),
	}
}

// EvalProfile returns the tabulated profile value
func (t *BSSRDFTable) EvalProfile(rhoIndex, radiusIndex int) float64 {
	return t.Profile[rhoIndex*len(t.RadiusSamples)+radiusIndex]
}

// EffectiveAlbedo interpolates the effective albedo for a single-scattering albedo rho
func (t *BSSRDFTable) EffectiveAlbedo(rho float64) float64 {
	n := len(t.RhoSamples)
	if n == 0 {
		return 0
	}
	if rho <= t.RhoSamples[0] {
		return t.RhoEff[0]
	}
	if rho >= t.RhoSamples[n-1] {
		return t.RhoEff[n-1]
	}
	i := 0
	for i+1 < n && t.RhoSamples[i+1] < rho {
		i++
	}
	w := (rho - t.RhoSamples[i]) / (t.RhoSamples[i+1] - t.RhoSamples[i])
	return (1-w)*t.RhoEff[i] + w*t.RhoEff[i+1]
}

// ComputeBeamDiffusionBSSRDF fills t with the photon beam diffusion profile for a medium
// with phase asymmetry g and relative index of refraction eta. Rows are computed in parallel.
func ComputeBeamDiffusionBSSRDF(g, eta float64, t *BSSRDFTable) {
	nRadius := len(t.RadiusSamples)
	nRho := len(t.RhoSamples)
	if nRadius < 2 || nRho < 2 {
		return
	}

	// Radii grow geometrically from 2.5e-3 mean free paths
	t.RadiusSamples[0] = 0
	t.RadiusSamples[1] = 2.5e-3
	for i := 2; i < nRadius; i++ {
		t.RadiusSamples[i] = t.RadiusSamples[i-1] * 1.2
	}

	// Albedos are packed towards 1, where the profile changes fastest
	for i := range t.RhoSamples {
		t.RhoSamples[i] = (1 - math.Exp(-8*float64(i)/float64(nRho-1))) / (1 - math.Exp(-8))
	}

	rows := make(chan int, nRho)
	for i := 0; i < nRho; i++ {
		rows <- i
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < min(runtime.NumCPU(), nRho); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				computeProfileRow(g, eta, t, i)
			}
		}()
	}
	wg.Wait()
}

// computeProfileRow writes row i of the profile, its CDF and its effective albedo.
// Rows are disjoint so concurrent calls for different i do not race.
func computeProfileRow(g, eta float64, t *BSSRDFTable, i int) {
	nRadius := len(t.RadiusSamples)
	rho := t.RhoSamples[i]
	row := t.Profile[i*nRadius : (i+1)*nRadius]
	for j, r := range t.RadiusSamples {
		row[j] = 2 * math.Pi * r * (BeamDiffusionSS(rho, 1-rho, g, eta, r) + BeamDiffusionMS(rho, 1-rho, g, eta, r))
	}
	t.RhoEff[i] = IntegrateCatmullRom(t.RadiusSamples, row, t.ProfileCDF[i*nRadius:(i+1)*nRadius])
}

// IntegrateCatmullRom integrates the Catmull-Rom spline through (x, values), writing the
// running integral to cdf and returning the total.
func IntegrateCatmullRom(x, values, cdf []float64) float64 {
	n := len(x)
	sum := 0.0
	cdf[0] = 0
	for i := 0; i < n-1; i++ {
		x0, x1 := x[i], x[i+1]
		f0, f1 := values[i], values[i+1]
		width := x1 - x0

		var d0, d1 float64
		if i > 0 {
			d0 = width * (f1 - values[i-1]) / (x1 - x[i-1])
		} else {
			d0 = f1 - f0
		}
		if i+2 < n {
			d1 = width * (values[i+2] - f0) / (x[i+2] - x0)
		} else {
			d1 = f1 - f0
		}

		sum += ((d0-d1)*(1.0/12.0) + (f0+f1)*0.5) * width
		cdf[i+1] = sum
	}
	return sum
}
