package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

func parseWorld(t *testing.T, body string) *PBRTScene {
	t.Helper()
	scene, err := ParsePBRT(strings.NewReader("WorldBegin\n" + body + "\nWorldEnd\n"))
	require.NoError(t, err)
	return scene
}

func TestBuildTexturesConstant(t *testing.T) {
	scene := parseWorld(t, `
Texture "tint" "spectrum" "constant" "rgb value" [0.2 0.4 0.6]
Texture "bumps" "float" "constant" "float value" 0.25
`)
	textures, err := BuildTextures(scene, "")
	require.NoError(t, err)

	require.Contains(t, textures.Spectrum, "tint")
	assert.Equal(t, core.NewVec3(0.2, 0.4, 0.6), textures.Spectrum["tint"].Evaluate(core.Vec2{}, core.Vec3{}))

	require.Contains(t, textures.Float, "bumps")
	assert.Equal(t, 0.25, textures.Float["bumps"].EvaluateFloat(core.Vec2{}, core.Vec3{}))
}

func TestBuildTexturesCheckerboard(t *testing.T) {
	scene := parseWorld(t, `
Texture "white" "spectrum" "constant" "rgb value" [1 1 1]
Texture "grid" "spectrum" "checkerboard" "float uscale" 2 "float vscale" 2
    "texture tex1" "white" "rgb tex2" [0 0 0]
Texture "fgrid" "float" "checkerboard" "float uscale" 2 "float tex1" 3 "float tex2" 5
`)
	textures, err := BuildTextures(scene, "")
	require.NoError(t, err)

	grid := textures.Spectrum["grid"]
	require.NotNil(t, grid)
	a := grid.Evaluate(core.NewVec2(0.1, 0.1), core.Vec3{})
	b := grid.Evaluate(core.NewVec2(0.6, 0.1), core.Vec3{})
	assert.NotEqual(t, a, b, "neighbouring cells should alternate")
	assert.ElementsMatch(t, []core.Vec3{a, b}, []core.Vec3{core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)})

	fgrid := textures.Float["fgrid"]
	require.NotNil(t, fgrid)
	values := []float64{
		fgrid.EvaluateFloat(core.NewVec2(0.25, 0.25), core.Vec3{}),
		fgrid.EvaluateFloat(core.NewVec2(0.75, 0.25), core.Vec3{}),
	}
	assert.ElementsMatch(t, []float64{3, 5}, values)
}

func TestBuildTexturesImagemap(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	writeImage(t, filepath.Join(dir, "red.png"), func(f *os.File) error { return png.Encode(f, img) })

	scene := parseWorld(t, `
Texture "albedo" "spectrum" "imagemap" "string filename" "red.png" "float maxsize" 4
Texture "height" "float" "imagemap" "string filename" "red.png" "float scale" 0.5
`)
	textures, err := BuildTextures(scene, dir)
	require.NoError(t, err)

	c := textures.Spectrum["albedo"].Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{})
	assert.InDelta(t, 1.0, c.X, 0.01)
	assert.InDelta(t, 0.0, c.Y, 0.01)

	h := textures.Float["height"]
	require.IsType(t, &material.ScaledFloat{}, h)
	assert.Greater(t, h.EvaluateFloat(core.NewVec2(0.5, 0.5), core.Vec3{}), 0.0)
}

func TestBuildTexturesErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown class", `Texture "t" "spectrum" "marble"`},
		{"unknown type", `Texture "t" "normal" "constant"`},
		{"missing class", `Texture "t" "spectrum"`},
		{"missing filename", `Texture "t" "spectrum" "imagemap"`},
		{"missing image", `Texture "t" "spectrum" "imagemap" "string filename" "nope.png"`},
		{"undefined reference", `Texture "t" "spectrum" "checkerboard" "texture tex1" "ghost"`},
		{"bad rgb", `Texture "t" "spectrum" "constant" "rgb value" [1 2]`},
		{"bad float", `Texture "t" "float" "constant" "float value" "high"`},
		{"bad bool", `Texture "t" "spectrum" "imagemap" "string filename" "a.png" "bool gamma" "maybe"`},
		{"spectrum checkerboard over float texture", "Texture \"f\" \"float\" \"constant\"\n" +
			`Texture "t" "spectrum" "checkerboard" "texture tex1" "f"`},
		{"float checkerboard over spectrum texture", "Texture \"c\" \"spectrum\" \"constant\"\n" +
			`Texture "t" "float" "checkerboard" "texture tex2" "c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTextures(parseWorld(t, tt.body), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestBuildTexturesImagemapGamma(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	writeImage(t, filepath.Join(dir, "gray.png"), func(f *os.File) error { return png.Encode(f, img) })

	scene := parseWorld(t, `
Texture "srgb" "spectrum" "imagemap" "string filename" "gray.png"
Texture "raw" "spectrum" "imagemap" "string filename" "gray.png" "bool gamma" "false"
Texture "height" "float" "imagemap" "string filename" "gray.png"
`)
	textures, err := BuildTextures(scene, dir)
	require.NoError(t, err)

	uv := core.NewVec2(0.5, 0.5)
	encoded := 128.0 / 255.0
	linear := textures.Spectrum["srgb"].Evaluate(uv, core.Vec3{})
	assert.InDelta(t, 0.2158, linear.X, 1e-3, "PNG texels are linearized by default")
	assert.InDelta(t, linear.X, linear.Z, 1e-12)

	raw := textures.Spectrum["raw"].Evaluate(uv, core.Vec3{})
	assert.InDelta(t, encoded, raw.X, 1e-3)

	assert.InDelta(t, 0.2158, textures.Float["height"].EvaluateFloat(uv, core.Vec3{}), 1e-3)
}

func TestSRGBToLinear(t *testing.T) {
	assert.Equal(t, 0.0, srgbToLinear(0))
	assert.InDelta(t, 1.0, srgbToLinear(1), 1e-12)
	assert.InDelta(t, 0.04/12.92, srgbToLinear(0.04), 1e-12)
}
