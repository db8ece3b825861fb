package shading

import (
	"math"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

// PointSample records what the scattering functions looked like at one grid cell
type PointSample struct {
	Lobes           int       // Number of BSDF lobes
	Reflective      bool      // Has a reflection lobe
	Transmissive    bool      // Has a transmission lobe
	HasBSSRDF       bool      // Whether a subsurface descriptor was attached
	SigmaA          core.Vec3 // Absorption coefficient
	SigmaS          core.Vec3 // Scattering coefficient
	Rho             core.Vec3 // Single-scattering albedo
	EffectiveAlbedo core.Vec3 // Multiple-scattering albedo from the profile table
	Throughput      core.Vec3 // f * |cos| / pdf of one BSDF sample, zero if sampling failed
}

// NewPointSample summarizes the scattering functions attached to si. If sampler is not nil
// the BSDF is also sampled once in the direction si.Wo.
func NewPointSample(si *material.SurfaceInteraction, sampler core.Sampler) PointSample {
	var ps PointSample
	if si.BSDF != nil {
		ps.Lobes = si.BSDF.NumComponents(material.BxDFAll)
		for _, lobe := range si.BSDF.Components() {
			ps.Reflective = ps.Reflective || lobe.Type()&material.BxDFReflection != 0
			ps.Transmissive = ps.Transmissive || lobe.Type()&material.BxDFTransmission != 0
		}
		if sampler != nil {
			ps.Throughput = sampleThroughput(si, sampler)
		}
	}
	if si.BSSRDF != nil {
		ps.HasBSSRDF = true
		ps.SigmaA = si.BSSRDF.SigmaA
		ps.SigmaS = si.BSSRDF.SigmaS
		ps.Rho = si.BSSRDF.Rho
		ps.EffectiveAlbedo = si.BSSRDF.EffectiveAlbedo()
	}
	return ps
}

func sampleThroughput(si *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	sample, ok := si.BSDF.Sample(si.Wo, sampler.Get1D(), sampler.Get2D(), material.BxDFAll)
	if !ok || sample.PDF == 0 {
		return core.Vec3{}
	}
	cos := math.Abs(sample.Wi.Dot(si.BSDF.ShadingNormal()))
	return sample.F.Multiply(cos / sample.PDF)
}

// ShadingStats contains statistics about a shading run
type ShadingStats struct {
	TotalPoints   int       // Number of points shaded
	BSSRDFPoints  int       // Points that received a subsurface descriptor
	TotalLobes    int       // Lobes across all points
	MinLobes      int       // Fewest lobes at any point
	MaxLobes      int       // Most lobes at any point
	SigmaAAccum   core.Vec3 // Sum of absorption coefficients
	SigmaSAccum   core.Vec3 // Sum of scattering coefficients
	AlbedoAccum   core.Vec3 // Sum of effective albedos
	ThroughputAcc core.Vec3 // Sum of sampled BSDF throughputs
	MaxArenaInUse int       // Largest number of arena objects live at once
}

// AddSample folds one point into the statistics
func (s *ShadingStats) AddSample(ps PointSample) {
	if s.TotalPoints == 0 || ps.Lobes < s.MinLobes {
		s.MinLobes = ps.Lobes
	}
	s.MaxLobes = max(s.MaxLobes, ps.Lobes)
	s.TotalPoints++
	s.TotalLobes += ps.Lobes
	s.ThroughputAcc = s.ThroughputAcc.Add(ps.Throughput)
	if ps.HasBSSRDF {
		s.BSSRDFPoints++
		s.SigmaAAccum = s.SigmaAAccum.Add(ps.SigmaA)
		s.SigmaSAccum = s.SigmaSAccum.Add(ps.SigmaS)
		s.AlbedoAccum = s.AlbedoAccum.Add(ps.EffectiveAlbedo)
	}
}

// Merge combines statistics gathered by different workers
func (s *ShadingStats) Merge(other ShadingStats) {
	if other.TotalPoints == 0 {
		return
	}
	if s.TotalPoints == 0 || other.MinLobes < s.MinLobes {
		s.MinLobes = other.MinLobes
	}
	s.MaxLobes = max(s.MaxLobes, other.MaxLobes)
	s.TotalPoints += other.TotalPoints
	s.BSSRDFPoints += other.BSSRDFPoints
	s.TotalLobes += other.TotalLobes
	s.SigmaAAccum = s.SigmaAAccum.Add(other.SigmaAAccum)
	s.SigmaSAccum = s.SigmaSAccum.Add(other.SigmaSAccum)
	s.AlbedoAccum = s.AlbedoAccum.Add(other.AlbedoAccum)
	s.ThroughputAcc = s.ThroughputAcc.Add(other.ThroughputAcc)
	s.MaxArenaInUse = max(s.MaxArenaInUse, other.MaxArenaInUse)
}

// AverageLobes returns the mean number of lobes per point
func (s *ShadingStats) AverageLobes() float64 {
	if s.TotalPoints == 0 {
		return 0
	}
	return float64(s.TotalLobes) / float64(s.TotalPoints)
}

// MeanThroughput returns the average sampled BSDF throughput over all points
func (s *ShadingStats) MeanThroughput() core.Vec3 {
	if s.TotalPoints == 0 {
		return core.Vec3{}
	}
	return s.ThroughputAcc.Multiply(1.0 / float64(s.TotalPoints))
}

// MeanSigmaA returns the average absorption coefficient over points with a BSSRDF
func (s *ShadingStats) MeanSigmaA() core.Vec3 { return s.mean(s.SigmaAAccum) }

// MeanSigmaS returns the average scattering coefficient over points with a BSSRDF
func (s *ShadingStats) MeanSigmaS() core.Vec3 { return s.mean(s.SigmaSAccum) }

// MeanEffectiveAlbedo returns the average effective albedo over points with a BSSRDF
func (s *ShadingStats) MeanEffectiveAlbedo() core.Vec3 { return s.mean(s.AlbedoAccum) }

func (s *ShadingStats) mean(accum core.Vec3) core.Vec3 {
	if s.BSSRDFPoints == 0 {
		return core.Vec3{}
	}
	return accum.Multiply(1.0 / float64(s.BSSRDFPoints))
}
