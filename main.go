package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/loaders"
	"github.com/df07/go-translucent/pkg/material"
	"github.com/df07/go-translucent/pkg/shading"
)

// options holds the parsed command line
type options struct {
	scenePath  string
	shading    shading.Config
	debug      bool
	listPreset bool
}

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "skin", "Scene name under scenes/ or a path to a .pbrt file")
	mode := flag.String("mode", "radiance", "Transport mode: 'radiance' or 'importance'")
	multiLobe := flag.Bool("multilobe", false, "Use a single FresnelSpecular lobe for the boundary")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	grid := flag.Int("grid", 16, "Shading points per side of the unit quad")
	tileSize := flag.Int("tile", 4, "Points per side of a work tile")
	debug := flag.Bool("debug", false, "Log every shading point")
	presets := flag.Bool("presets", false, "List the measured media presets and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Translucent material inspector")
		fmt.Println("Usage: translucent [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Loads the materials of a PBRT scene, builds their scattering functions over a")
		fmt.Println("grid of points and prints the resulting coefficients and boundary lobes.")
		return
	}

	transport, ok := material.ParseTransportMode(*mode)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown transport mode: %s\n", *mode)
		os.Exit(2)
	}

	scenePath, err := resolveScenePath(*sceneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	opts := options{
		scenePath: scenePath,
		shading: shading.Config{
			GridSize:           *grid,
			TileSize:           *tileSize,
			NumWorkers:         *workers,
			Mode:               transport,
			AllowMultipleLobes: *multiLobe,
		},
		debug:      *debug,
		listPreset: *presets,
	}

	logger := core.NewDefaultLogger("translucent", *debug)
	if err := run(context.Background(), opts, os.Stdout, logger); err != nil {
		logger.Warnf("%v", err)
		os.Exit(1)
	}
}

// resolveScenePath maps a scene name to its file under scenes/; paths are used as given
func resolveScenePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("scene name cannot be empty")
	}
	if strings.HasSuffix(strings.ToLower(name), ".pbrt") {
		return name, nil
	}
	return filepath.Join("scenes", name+".pbrt"), nil
}

// run loads the scene, configures its materials and shades each of them over the grid
func run(ctx context.Context, opts options, out io.Writer, logger *core.DefaultLogger) error {
	if opts.listPreset {
		for _, name := range material.MeasuredMedia().Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	startTime := time.Now()
	scene, err := loaders.LoadPBRT(opts.scenePath)
	if err != nil {
		return fmt.Errorf("failed to load scene %s: %w", opts.scenePath, err)
	}

	textures, err := loaders.BuildTextures(scene, filepath.Dir(opts.scenePath))
	if err != nil {
		return fmt.Errorf("failed to build textures: %w", err)
	}

	configurator := material.NewMaterialConfigurator(logger)
	materials, err := loaders.LoadMaterials(scene, textures, configurator, logger)
	if err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}
	logger.Printf("Loaded %d materials and %d textures from %s in %v\n",
		len(materials), len(scene.Textures), opts.scenePath, time.Since(startTime))

	shader := shading.NewShader(opts.shading, logger)
	defer shader.Close()
	for _, loaded := range materials {
		var visitor shading.Visitor
		if opts.debug {
			visitor = debugVisitor(logger)
		}

		startTime = time.Now()
		result, err := shader.ShadeGrid(ctx, loaded.Material, visitor)
		if err != nil {
			return fmt.Errorf("failed to shade %s: %w", describe(loaded), err)
		}
		printSummary(out, loaded, result.Stats, time.Since(startTime))
	}
	return nil
}

// debugVisitor logs the scattering functions of every shading point
func debugVisitor(logger *core.DefaultLogger) shading.Visitor {
	return func(x, y int, si *material.SurfaceInteraction) error {
		sample := shading.NewPointSample(si, nil)
		logger.Debugf("point (%d, %d) uv=(%.3f, %.3f): %d lobes, sigma_a=%v sigma_s=%v\n",
			x, y, si.UV.X, si.UV.Y, sample.Lobes, sample.SigmaA, sample.SigmaS)
		return nil
	}
}

func describe(loaded loaders.LoadedMaterial) string {
	if loaded.Name != "" {
		return fmt.Sprintf("%s material %q (line %d)", loaded.Class, loaded.Name, loaded.Line)
	}
	return fmt.Sprintf("%s material (line %d)", loaded.Class, loaded.Line)
}

func printSummary(out io.Writer, loaded loaders.LoadedMaterial, stats shading.ShadingStats, elapsed time.Duration) {
	fmt.Fprintf(out, "%s\n", describe(loaded))
	fmt.Fprintf(out, "  points: %d in %v\n", stats.TotalPoints, elapsed)
	fmt.Fprintf(out, "  lobes:  %.2f average (range %d - %d)\n", stats.AverageLobes(), stats.MinLobes, stats.MaxLobes)
	fmt.Fprintf(out, "  sampled throughput: %s\n", formatVec(stats.MeanThroughput()))
	if stats.BSSRDFPoints == 0 {
		fmt.Fprintf(out, "  no subsurface scattering\n")
		return
	}
	fmt.Fprintf(out, "  sigma_a:          %s\n", formatVec(stats.MeanSigmaA()))
	fmt.Fprintf(out, "  sigma_s:          %s\n", formatVec(stats.MeanSigmaS()))
	fmt.Fprintf(out, "  effective albedo: %s\n", formatVec(stats.MeanEffectiveAlbedo()))
}

func formatVec(v core.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
