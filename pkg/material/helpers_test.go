package material

import (
	"fmt"
	"sync"

	"github.com/df07/go-translucent/pkg/core"
)

// recordingLogger keeps every message so tests can assert on warnings
type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// flatInteraction returns a point on the z=0 plane seen from straight above
func flatInteraction() SurfaceInteraction {
	return NewSurfaceInteraction(
		core.NewVec3(0, 0, 0),
		core.NewVec2(0.25, 0.75),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.Vec3{},
		core.Vec3{},
	)
}

// Profile tables take a while to compute; builder tests share one configurator.
var (
	sharedConfiguratorOnce sync.Once
	sharedConfigurator     *MaterialConfigurator
)

func testMaterial(params MapParams) *SubsurfaceMaterial {
	sharedConfiguratorOnce.Do(func() {
		sharedConfigurator = NewMaterialConfigurator(nil)
	})
	return sharedConfigurator.CreateSubsurfaceMaterial(params)
}

func solid(r, g, b float64) ColorSource {
	return NewSolidColor(core.NewVec3(r, g, b))
}

// linearU is a displacement that rises linearly with u
type linearU struct {
	slope float64
}

func (l linearU) EvaluateFloat(uv core.Vec2, point core.Vec3) float64 {
	return l.slope * uv.X
}
