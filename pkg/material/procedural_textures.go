package material

import (
	"math"

	"github.com/df07/go-translucent/pkg/core"
)

// CheckerTexture alternates between two color sources on a UV grid
type CheckerTexture struct {
	Even, Odd      ColorSource
	UScale, VScale float64
}

// NewCheckerTexture creates a checkerboard with the given number of checks per unit of UV
func NewCheckerTexture(even, odd ColorSource, uScale, vScale float64) *CheckerTexture {
	return &CheckerTexture{Even: even, Odd: odd, UScale: uScale, VScale: vScale}
}

// Evaluate picks the source of the check that contains uv
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if c.isEven(uv) {
		return c.Even.Evaluate(uv, point)
	}
	return c.Odd.Evaluate(uv, point)
}

func (c *CheckerTexture) isEven(uv core.Vec2) bool {
	checkU := int(math.Floor(uv.X * c.UScale))
	checkV := int(math.Floor(uv.Y * c.VScale))
	return (checkU+checkV)%2 == 0
}

// FloatChecker is the scalar counterpart of CheckerTexture
type FloatChecker struct {
	Even, Odd      FloatSource
	UScale, VScale float64
}

// EvaluateFloat picks the value of the check that contains uv
func (c *FloatChecker) EvaluateFloat(uv core.Vec2, point core.Vec3) float64 {
	checker := CheckerTexture{UScale: c.UScale, VScale: c.VScale}
	if checker.isEven(uv) {
		return c.Even.EvaluateFloat(uv, point)
	}
	return c.Odd.EvaluateFloat(uv, point)
}
