package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

// TextureSet holds the named textures declared in a scene
type TextureSet struct {
	Spectrum map[string]material.ColorSource
	Float    map[string]material.FloatSource
}

// NewTextureSet creates an empty texture set
func NewTextureSet() *TextureSet {
	return &TextureSet{
		Spectrum: make(map[string]material.ColorSource),
		Float:    make(map[string]material.FloatSource),
	}
}

// BuildTextures creates every Texture declared in scene. Image filenames are resolved
// relative to baseDir. Textures may refer to textures declared before them.
func BuildTextures(scene *PBRTScene, baseDir string) (*TextureSet, error) {
	textures := NewTextureSet()
	for i := range scene.Textures {
		stmt := &scene.Textures[i]
		if err := textures.add(stmt, baseDir); err != nil {
			return nil, fmt.Errorf("line %d: texture %q: %w", stmt.Line, stmt.Subtype, err)
		}
	}
	return textures, nil
}

func (ts *TextureSet) add(stmt *PBRTStatement, baseDir string) error {
	if len(stmt.Args) != 2 {
		return fmt.Errorf("expected texture type and class, got %v", stmt.Args)
	}
	texType, class := stmt.Args[0], stmt.Args[1]

	// A texture's inputs have the same kind as the texture itself
	isFloat := texType == "float"
	if err := validateParams(stmt, ts, func(string) bool { return isFloat }); err != nil {
		return err
	}

	switch texType {
	case "spectrum", "color", "rgb":
		tex, err := ts.buildSpectrum(stmt, class, baseDir)
		if err != nil {
			return err
		}
		ts.Spectrum[stmt.Subtype] = tex
	case "float":
		tex, err := ts.buildFloat(stmt, class, baseDir)
		if err != nil {
			return err
		}
		ts.Float[stmt.Subtype] = tex
	default:
		return fmt.Errorf("unsupported texture type %q", texType)
	}
	return nil
}

func (ts *TextureSet) buildSpectrum(stmt *PBRTStatement, class, baseDir string) (material.ColorSource, error) {
	params := &MaterialParams{Statement: stmt, Textures: ts}
	switch class {
	case "constant":
		return params.GetSpectrumTexture("value", core.NewVec3(1, 1, 1)), nil
	case "imagemap":
		return loadImageTexture(stmt, baseDir)
	case "checkerboard":
		return material.NewCheckerTexture(
			params.GetSpectrumTexture("tex1", core.NewVec3(1, 1, 1)),
			params.GetSpectrumTexture("tex2", core.NewVec3(0, 0, 0)),
			params.FindFloat("uscale", 1),
			params.FindFloat("vscale", 1),
		), nil
	}
	return nil, fmt.Errorf("unsupported spectrum texture class %q", class)
}

func (ts *TextureSet) buildFloat(stmt *PBRTStatement, class, baseDir string) (material.FloatSource, error) {
	params := &MaterialParams{Statement: stmt, Textures: ts}
	switch class {
	case "constant":
		return material.NewConstantFloat(params.FindFloat("value", 1)), nil
	case "imagemap":
		tex, err := loadImageTexture(stmt, baseDir)
		if err != nil {
			return nil, err
		}
		if scale, ok := stmt.GetFloatParam("scale"); ok {
			return &material.ScaledFloat{Source: tex, Scale: scale}, nil
		}
		return tex, nil
	case "checkerboard":
		return &material.FloatChecker{
			Even:   params.floatTexture("tex1", 1),
			Odd:    params.floatTexture("tex2", 0),
			UScale: params.FindFloat("uscale", 1),
			VScale: params.FindFloat("vscale", 1),
		}, nil
	}
	return nil, fmt.Errorf("unsupported float texture class %q", class)
}

func loadImageTexture(stmt *PBRTStatement, baseDir string) (*material.ImageTexture, error) {
	filename, ok := stmt.GetStringParam("filename")
	if !ok || filename == "" {
		return nil, fmt.Errorf("imagemap requires a filename")
	}
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(baseDir, filename)
	}

	maxSize, _ := stmt.GetFloatParam("maxsize")
	img, err := LoadImageResized(filename, int(maxSize))
	if err != nil {
		return nil, err
	}

	// 8-bit formats store sRGB-encoded texels
	gamma, ok := stmt.GetBoolParam("gamma")
	if !ok {
		gamma = hasExtension(filename, ".png") || hasExtension(filename, ".tga")
	}
	if gamma {
		img.Linearize()
	}
	return material.NewImageTexture(img.Width, img.Height, img.Pixels), nil
}

func hasExtension(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}
