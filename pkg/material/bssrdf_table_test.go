package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrateCatmullRom_Linear(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	values := []float64{0, 2, 4, 6}
	cdf := make([]float64, len(x))

	total := IntegrateCatmullRom(x, values, cdf)

	assert.InDelta(t, 9.0, total, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1, 4, 9}, cdf, 1e-12)
}

func TestComputeBeamDiffusionBSSRDF(t *testing.T) {
	table := ComputeProfileTable(0, 1.33)

	require.Len(t, table.RadiusSamples, profileRadiusSamples)
	assert.Equal(t, 0.0, table.RadiusSamples[0])
	assert.Equal(t, 2.5e-3, table.RadiusSamples[1])
	assert.InDelta(t, 2.5e-3*1.2, table.RadiusSamples[2], 1e-15)

	assert.Equal(t, 0.0, table.RhoSamples[0])
	assert.InDelta(t, 1.0, table.RhoSamples[len(table.RhoSamples)-1], 1e-12)

	for i, v := range table.Profile {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "profile[%d] = %v", i, v)
		require.GreaterOrEqual(t, v, 0.0, "profile[%d]", i)
	}

	assert.Equal(t, 0.0, table.RhoEff[0], "a purely absorbing medium reflects nothing")
	for i := 1; i < len(table.RhoEff); i++ {
		assert.GreaterOrEqual(t, table.RhoEff[i], table.RhoEff[i-1]-1e-9, "rhoEff should grow with albedo (i=%d)", i)
	}
	// Photon beam diffusion overshoots energy conservation slightly as absorption vanishes
	for i, rho := range table.RhoSamples {
		if rho < 0.9999 {
			assert.LessOrEqual(t, table.RhoEff[i], 1.0, "rho=%v", rho)
		}
	}
	last := table.RhoEff[len(table.RhoEff)-1]
	assert.Greater(t, last, 0.9)
	assert.Less(t, last, 1.05)

	// Each CDF row ends at that row's effective albedo
	nRadius := len(table.RadiusSamples)
	for i := range table.RhoSamples {
		assert.InDelta(t, table.RhoEff[i], table.ProfileCDF[(i+1)*nRadius-1], 1e-12)
	}
}

func TestBSSRDFTable_EffectiveAlbedo(t *testing.T) {
	table := NewBSSRDFTable(3, 2)
	table.RhoSamples = []float64{0, 0.5, 1}
	table.RhoEff = []float64{0, 0.2, 0.8}

	assert.Equal(t, 0.0, table.EffectiveAlbedo(-1))
	assert.InDelta(t, 0.1, table.EffectiveAlbedo(0.25), 1e-12)
	assert.InDelta(t, 0.5, table.EffectiveAlbedo(0.75), 1e-12)
	assert.Equal(t, 0.8, table.EffectiveAlbedo(2))
}

func TestPhaseHG_Isotropic(t *testing.T) {
	for _, cos := range []float64{-1, 0, 0.5, 1} {
		assert.InDelta(t, 1/(4*math.Pi), PhaseHG(cos, 0), 1e-12)
	}
}
