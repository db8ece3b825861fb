package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// Built-in coefficients used when no preset or texture overrides them (mm^-1)
var (
	DefaultSigmaA = core.NewVec3(.0011, .0024, .014)
	DefaultSigmaS = core.NewVec3(2.55, 3.21, 3.77)
)

// Parameter defaults
const (
	DefaultScale = 1.0
	DefaultEta   = 1.33
	DefaultG     = 0.0
)

// ParamSource exposes the named parameters of one material declaration. Parsing and
// validation of the values belong to the implementation.
type ParamSource interface {
	FindString(name, def string) string
	FindFloat(name string, def float64) float64
	GetSpectrumTexture(name string, def core.Vec3) ColorSource
	// GetFloatTextureOrNil returns nil when the texture is not configured
	GetFloatTextureOrNil(name string) FloatSource
}

// MaterialConfigurator turns material declarations into subsurface materials. It must
// finish before the materials are used for shading and is not safe for concurrent use.
type MaterialConfigurator struct {
	Presets PresetResolver
	Logger  core.Logger

	tables map[profileKey]*BSSRDFTable
}

// Tables depend only on g and eta, so materials that agree on both share one
type profileKey struct {
	g, eta float64
}

// NewMaterialConfigurator creates a configurator using the measured media presets
func NewMaterialConfigurator(logger core.Logger) *MaterialConfigurator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &MaterialConfigurator{
		Presets: MeasuredMedia(),
		Logger:  logger,
	}
}

// CreateSubsurfaceMaterial builds a material from params. An unknown preset name is
// logged as a warning and the built-in coefficients are used instead.
func (c *MaterialConfigurator) CreateSubsurfaceMaterial(params ParamSource) *SubsurfaceMaterial {
	sigA, sigS := DefaultSigmaA, DefaultSigmaS

	name := params.FindString("name", "")
	if name != "" {
		if a, s, ok := c.lookupPreset(name); ok {
			sigA, sigS = a, s
		} else if c.Logger != nil {
			c.Logger.Warnf("Named material %q not found.  Using defaults.", name)
		}
	}

	scale := params.FindFloat("scale", DefaultScale)
	eta := params.FindFloat("eta", DefaultEta)
	g := params.FindFloat("g", DefaultG)

	sigmaA := params.GetSpectrumTexture("sigma_a", sigA)
	sigmaS := params.GetSpectrumTexture("sigma_s", sigS)
	kr := params.GetSpectrumTexture("Kr", core.NewVec3(1, 1, 1))
	kt := params.GetSpectrumTexture("Kt", core.NewVec3(1, 1, 1))
	bumpMap := params.GetFloatTextureOrNil("bumpmap")

	return newSubsurfaceMaterial(scale, kr, kt, sigmaA, sigmaS, g, eta, bumpMap, c.tableFor(g, eta))
}

func (c *MaterialConfigurator) lookupPreset(name string) (core.Vec3, core.Vec3, bool) {
	if c.Presets == nil {
		return core.Vec3{}, core.Vec3{}, false
	}
	return c.Presets.Lookup(name)
}

func (c *MaterialConfigurator) tableFor(g, eta float64) *BSSRDFTable {
	key := profileKey{g: g, eta: eta}
	if table, ok := c.tables[key]; ok {
		return table
	}
	if c.tables == nil {
		c.tables = make(map[profileKey]*BSSRDFTable)
	}
	table := ComputeProfileTable(g, eta)
	c.tables[key] = table
	return table
}

// MapParams is a ParamSource over plain Go values, for materials assembled in code
type MapParams struct {
	Strings       map[string]string
	Floats        map[string]float64
	Spectra       map[string]ColorSource
	FloatTextures map[string]FloatSource
}

func (p MapParams) FindString(name, def string) string {
	if v, ok := p.Strings[name]; ok {
		return v
	}
	return def
}

func (p MapParams) FindFloat(name string, def float64) float64 {
	if v, ok := p.Floats[name]; ok {
		return v
	}
	return def
}

func (p MapParams) GetSpectrumTexture(name string, def core.Vec3) ColorSource {
	if tex, ok := p.Spectra[name]; ok && tex != nil {
		return tex
	}
	return NewSolidColor(def)
}

func (p MapParams) GetFloatTextureOrNil(name string) FloatSource {
	if tex, ok := p.FloatTextures[name]; ok && tex != nil {
		return tex
	}
	return nil
}
