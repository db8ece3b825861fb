package loaders

import (
	"fmt"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

// LoadedMaterial is a material created from a Material or MakeNamedMaterial statement
type LoadedMaterial struct {
	Name     string // Declared name for MakeNamedMaterial, empty for anonymous materials
	Class    string // Material class, e.g. "subsurface"
	Line     int
	Material material.Material
}

// floatTextureParams lists the material parameters that take float textures
var floatTextureParams = map[string]bool{"bumpmap": true}

func isFloatTextureParam(name string) bool {
	return floatTextureParams[name]
}

// LoadMaterials creates the materials declared in scene. Subsurface materials go through
// configurator; classes without an implementation are skipped with a warning.
func LoadMaterials(scene *PBRTScene, textures *TextureSet, configurator *material.MaterialConfigurator, logger core.Logger) ([]LoadedMaterial, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	var loaded []LoadedMaterial
	for i := range scene.Materials {
		stmt := &scene.Materials[i]

		name, class := materialNameAndClass(stmt)
		if class == "" {
			return nil, fmt.Errorf("line %d: named material %q has no \"string type\"", stmt.Line, name)
		}
		if err := validateParams(stmt, textures, isFloatTextureParam); err != nil {
			return nil, fmt.Errorf("line %d: material %q: %w", stmt.Line, class, err)
		}

		params := &MaterialParams{Statement: stmt, Textures: textures}
		var mat material.Material
		switch class {
		case "subsurface":
			mat = configurator.CreateSubsurfaceMaterial(params)
		case "glass", "dielectric":
			mat = createDielectric(params)
		default:
			logger.Warnf("line %d: material %q is not supported, skipping", stmt.Line, class)
			continue
		}

		loaded = append(loaded, LoadedMaterial{Name: name, Class: class, Line: stmt.Line, Material: mat})
	}
	return loaded, nil
}

// materialNameAndClass returns the declared name and class of a material statement
func materialNameAndClass(stmt *PBRTStatement) (string, string) {
	if stmt.Type == "MakeNamedMaterial" {
		class, _ := stmt.GetStringParam("type")
		return stmt.Subtype, class
	}
	return "", stmt.Subtype
}

func createDielectric(params *MaterialParams) *material.Dielectric {
	d := material.NewDielectric(params.FindFloat("eta", 1.5))
	d.Kr = params.GetSpectrumTexture("Kr", core.NewVec3(1, 1, 1))
	d.Kt = params.GetSpectrumTexture("Kt", core.NewVec3(1, 1, 1))
	d.BumpMap = params.GetFloatTextureOrNil("bumpmap")
	return d
}
