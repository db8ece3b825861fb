package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-translucent/pkg/core"
)

func TestComputeScatteringFunctions_LobeSelection(t *testing.T) {
	tests := []struct {
		name      string
		kr, kt    ColorSource
		merged    bool
		wantLobes int
		wantTypes []BxDFType
	}{
		{"both tints separate", solid(1, 1, 1), solid(1, 1, 1), false, 2,
			[]BxDFType{BxDFReflection | BxDFSpecular, BxDFTransmission | BxDFSpecular}},
		{"reflection only", solid(1, 1, 1), solid(0, 0, 0), false, 1,
			[]BxDFType{BxDFReflection | BxDFSpecular}},
		{"transmission only", solid(0, 0, 0), solid(0.5, 0, 0), false, 1,
			[]BxDFType{BxDFTransmission | BxDFSpecular}},
		{"both black", solid(0, 0, 0), solid(0, 0, 0), false, 0, nil},
		{"negative tints count as black", solid(-1, -2, 0), solid(-0.5, 0, -3), false, 0, nil},
		{"merged", solid(1, 1, 1), solid(1, 1, 1), true, 1,
			[]BxDFType{BxDFReflection | BxDFTransmission | BxDFSpecular}},
		{"merged with black tints", solid(0, 0, 0), solid(0, 0, 0), true, 1,
			[]BxDFType{BxDFReflection | BxDFTransmission | BxDFSpecular}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat := testMaterial(MapParams{Spectra: map[string]ColorSource{"Kr": tt.kr, "Kt": tt.kt}})
			arena := NewArena()
			si := flatInteraction()

			mat.ComputeScatteringFunctions(&si, arena, Radiance, tt.merged)

			require.NotNil(t, si.BSDF)
			require.NotNil(t, si.BSSRDF, "the transport descriptor is attached even without lobes")
			assert.Equal(t, tt.wantLobes, si.BSDF.NumComponents(BxDFAll))
			for i, lobe := range si.BSDF.Components() {
				assert.Equal(t, tt.wantTypes[i], lobe.Type())
			}
			assert.Equal(t, 1.33, si.BSDF.Eta)
		})
	}
}

func TestComputeScatteringFunctions_ClampsInputs(t *testing.T) {
	mat := testMaterial(MapParams{Spectra: map[string]ColorSource{
		"Kr":      solid(-1, 0.5, 2),
		"Kt":      solid(0.25, -0.25, 1),
		"sigma_a": solid(-0.1, 0.2, -5),
		"sigma_s": solid(3, -4, 0),
	}})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	lobes := si.BSDF.Components()
	require.Len(t, lobes, 2)
	refl := lobes[0].(*SpecularReflection)
	trans := lobes[1].(*SpecularTransmission)
	assert.Equal(t, core.NewVec3(0, 0.5, 2), refl.R)
	assert.Equal(t, core.NewVec3(0.25, 0, 1), trans.T)

	assert.Equal(t, core.NewVec3(0, 0.2, 0), si.BSSRDF.SigmaA)
	assert.Equal(t, core.NewVec3(3, 0, 0), si.BSSRDF.SigmaS)
	assert.Equal(t, core.NewVec3(1, 0, 0), si.BSSRDF.Rho, "channels without extinction get zero albedo")
}

func TestComputeScatteringFunctions_MergedLobeCarriesTints(t *testing.T) {
	mat := testMaterial(MapParams{Spectra: map[string]ColorSource{
		"Kr": solid(0.9, 0.8, -0.7),
		"Kt": solid(0.1, 0.2, 0.3),
	}})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Importance, true)

	lobe, ok := si.BSDF.Components()[0].(*FresnelSpecular)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0.9, 0.8, 0), lobe.R)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), lobe.T)
	assert.Equal(t, 1.0, lobe.EtaA)
	assert.Equal(t, 1.33, lobe.EtaB)
	assert.Equal(t, Importance, lobe.Mode)
}

func TestComputeScatteringFunctions_ZeroScale(t *testing.T) {
	mat := testMaterial(MapParams{
		Floats: map[string]float64{"scale": 0},
		Spectra: map[string]ColorSource{
			"sigma_a": solid(5, 6, 7),
			"sigma_s": solid(100, 200, 300),
		},
	})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	assert.Equal(t, core.Vec3{}, si.BSSRDF.SigmaA)
	assert.Equal(t, core.Vec3{}, si.BSSRDF.SigmaS)
	assert.Equal(t, core.Vec3{}, si.BSSRDF.SigmaT)
	assert.Equal(t, core.Vec3{}, si.BSSRDF.Rho)
}

func TestComputeScatteringFunctions_ScaleMultipliesCoefficients(t *testing.T) {
	mat := testMaterial(MapParams{
		Strings: map[string]string{"name": "Skin1"},
		Floats:  map[string]float64{"scale": 10},
	})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	a, s, _ := MeasuredMedia().Lookup("Skin1")
	assert.InDelta(t, a.X*10, si.BSSRDF.SigmaA.X, 1e-12)
	assert.InDelta(t, a.Z*10, si.BSSRDF.SigmaA.Z, 1e-12)
	assert.InDelta(t, s.Y*10, si.BSSRDF.SigmaS.Y, 1e-12)
}

func TestComputeScatteringFunctions_Idempotent(t *testing.T) {
	mat := testMaterial(MapParams{Strings: map[string]string{"name": "Marble"}})
	arena := NewArena()

	first := flatInteraction()
	second := flatInteraction()
	mat.ComputeScatteringFunctions(&first, arena, Radiance, false)
	mat.ComputeScatteringFunctions(&second, arena, Radiance, false)

	require.NotSame(t, first.BSSRDF, second.BSSRDF)
	assert.Equal(t, *first.BSSRDF, *second.BSSRDF)
	assert.Same(t, first.BSSRDF.Table, second.BSSRDF.Table)

	require.Equal(t, first.BSDF.NumComponents(BxDFAll), second.BSDF.NumComponents(BxDFAll))
	for i := range first.BSDF.Components() {
		assert.Equal(t, first.BSDF.Components()[i], second.BSDF.Components()[i])
	}
}

func TestComputeScatteringFunctions_EndToEndDefaults(t *testing.T) {
	logger := &recordingLogger{}
	c := NewMaterialConfigurator(logger)
	mat := c.CreateSubsurfaceMaterial(MapParams{Strings: map[string]string{"name": ""}})
	assert.Empty(t, logger.warnings)

	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	assert.Equal(t, 2, si.BSDF.NumComponents(BxDFAll))
	assert.Equal(t, 1, si.BSDF.NumComponents(BxDFReflection|BxDFSpecular))
	assert.Equal(t, 1, si.BSDF.NumComponents(BxDFTransmission|BxDFSpecular))

	b := si.BSSRDF
	assert.Equal(t, DefaultSigmaA, b.SigmaA)
	assert.Equal(t, DefaultSigmaS, b.SigmaS)
	assert.Equal(t, 1.33, b.Eta)
	assert.Equal(t, Radiance, b.Mode)
	assert.Same(t, mat, b.Material)
	assert.Same(t, mat.Table(), b.Table)
	assert.Equal(t, si.Point, b.Point)
	assert.Equal(t, core.NewVec3(0, 0, 1), b.Normal)
}

func TestComputeScatteringFunctions_EndToEndUnknownName(t *testing.T) {
	logger := &recordingLogger{}
	c := NewMaterialConfigurator(logger)
	mat := c.CreateSubsurfaceMaterial(MapParams{Strings: map[string]string{"name": "nonexistent-material"}})
	require.Len(t, logger.warnings, 1)

	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)
	assert.Equal(t, DefaultSigmaA, si.BSSRDF.SigmaA)
	assert.Equal(t, DefaultSigmaS, si.BSSRDF.SigmaS)
	assert.Equal(t, 2, si.BSDF.NumComponents(BxDFAll))
}

func TestComputeScatteringFunctions_BumpPerturbsFrameFirst(t *testing.T) {
	mat := testMaterial(MapParams{FloatTextures: map[string]FloatSource{"bumpmap": linearU{slope: 0.1}}})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	want := core.NewVec3(-0.1, 0, 1).Normalize()
	n := si.Shading.Normal
	assert.InDelta(t, want.X, n.X, 1e-6)
	assert.InDelta(t, want.Y, n.Y, 1e-6)
	assert.InDelta(t, want.Z, n.Z, 1e-6)

	assert.Equal(t, n, si.BSDF.ShadingNormal())
	assert.Equal(t, n, si.BSSRDF.Normal)
	assert.Equal(t, core.NewVec3(0, 0, 1), si.Normal, "geometric normal is untouched")
}

func TestComputeScatteringFunctions_TransportMode(t *testing.T) {
	mat := testMaterial(MapParams{})
	for _, mode := range []TransportMode{Radiance, Importance} {
		t.Run(mode.String(), func(t *testing.T) {
			si := flatInteraction()
			mat.ComputeScatteringFunctions(&si, NewArena(), mode, false)
			assert.Equal(t, mode, si.BSSRDF.Mode)
			trans := si.BSDF.Components()[1].(*SpecularTransmission)
			assert.Equal(t, mode, trans.Mode)
		})
	}
}

func TestComputeScatteringFunctions_DegenerateMedium(t *testing.T) {
	mat := testMaterial(MapParams{Spectra: map[string]ColorSource{
		"sigma_a": solid(0, 0, 0),
		"sigma_s": solid(0, 0, 0),
	}})
	si := flatInteraction()
	mat.ComputeScatteringFunctions(&si, NewArena(), Radiance, false)

	require.NotNil(t, si.BSSRDF)
	assert.Equal(t, core.Vec3{}, si.BSSRDF.SigmaT)
	assert.Equal(t, core.Vec3{}, si.BSSRDF.MeanFreePath())
	assert.Equal(t, core.Vec3{}, si.BSSRDF.EffectiveAlbedo())
}

func TestDielectric_ComputeScatteringFunctions(t *testing.T) {
	glass := NewDielectric(1.5)
	arena := NewArena()

	si := flatInteraction()
	glass.ComputeScatteringFunctions(&si, arena, Radiance, false)
	assert.Equal(t, 2, si.BSDF.NumComponents(BxDFAll))
	assert.Nil(t, si.BSSRDF, "glass has no medium below the surface")

	merged := flatInteraction()
	glass.ComputeScatteringFunctions(&merged, arena, Radiance, true)
	assert.Equal(t, 1, merged.BSDF.NumComponents(BxDFAll))
}
