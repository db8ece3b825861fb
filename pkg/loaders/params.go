package loaders

import (
	"fmt"
	"strconv"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

// MaterialParams exposes a parsed statement as a material.ParamSource. Values are
// expected to have passed validateParams; anything unusable falls back to the default.
type MaterialParams struct {
	Statement *PBRTStatement
	Textures  *TextureSet
}

// FindString returns a string parameter or def
func (p *MaterialParams) FindString(name, def string) string {
	if v, ok := p.Statement.GetStringParam(name); ok {
		return v
	}
	return def
}

// FindFloat returns a float parameter or def
func (p *MaterialParams) FindFloat(name string, def float64) float64 {
	if v, ok := p.Statement.GetFloatParam(name); ok {
		return v
	}
	return def
}

// GetSpectrumTexture resolves an rgb value or a named spectrum texture. A plain float is
// treated as a gray spectrum.
func (p *MaterialParams) GetSpectrumTexture(name string, def core.Vec3) material.ColorSource {
	param, ok := p.Statement.Parameters[name]
	if !ok {
		return material.NewSolidColor(def)
	}
	switch param.Type {
	case "texture":
		if tex, ok := p.Textures.Spectrum[param.Values[0]]; ok {
			return tex
		}
	case "rgb", "color":
		if c, ok := p.Statement.GetRGBParam(name); ok {
			return material.NewSolidColor(*c)
		}
	case "float":
		if v, ok := p.Statement.GetFloatParam(name); ok {
			return material.NewSolidColor(core.NewVec3(v, v, v))
		}
	}
	return material.NewSolidColor(def)
}

// GetFloatTextureOrNil resolves a float value or a named float texture, or returns nil
func (p *MaterialParams) GetFloatTextureOrNil(name string) material.FloatSource {
	param, ok := p.Statement.Parameters[name]
	if !ok {
		return nil
	}
	switch param.Type {
	case "texture":
		if tex, ok := p.Textures.Float[param.Values[0]]; ok {
			return tex
		}
	case "float":
		if v, ok := p.Statement.GetFloatParam(name); ok {
			return material.NewConstantFloat(v)
		}
	}
	return nil
}

func (p *MaterialParams) floatTexture(name string, def float64) material.FloatSource {
	if tex := p.GetFloatTextureOrNil(name); tex != nil {
		return tex
	}
	return material.NewConstantFloat(def)
}

// validateParams checks that every parameter of stmt is well formed and that texture
// references resolve. Parameters for which isFloatParam reports true must name float
// textures; every other texture reference must name a spectrum texture.
func validateParams(stmt *PBRTStatement, textures *TextureSet, isFloatParam func(name string) bool) error {
	for name, param := range stmt.Parameters {
		if len(param.Values) == 0 {
			return fmt.Errorf("parameter %q has no values", name)
		}
		switch param.Type {
		case "float", "integer":
			for _, v := range param.Values {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fmt.Errorf("parameter %q: invalid number %q: %w", name, v, err)
				}
			}
		case "rgb", "color":
			if len(param.Values) != 3 {
				return fmt.Errorf("parameter %q: rgb needs 3 values, got %d", name, len(param.Values))
			}
			for _, v := range param.Values {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fmt.Errorf("parameter %q: invalid number %q: %w", name, v, err)
				}
			}
		case "bool":
			for _, v := range param.Values {
				if _, err := strconv.ParseBool(v); err != nil {
					return fmt.Errorf("parameter %q: invalid bool %q: %w", name, v, err)
				}
			}
		case "string":
		case "texture":
			ref := param.Values[0]
			if isFloatParam(name) {
				if _, ok := textures.Float[ref]; !ok {
					return fmt.Errorf("parameter %q: unknown float texture %q", name, ref)
				}
			} else if _, ok := textures.Spectrum[ref]; !ok {
				return fmt.Errorf("parameter %q: unknown spectrum texture %q", name, ref)
			}
		default:
			return fmt.Errorf("parameter %q: unsupported type %q", name, param.Type)
		}
	}
	return nil
}
