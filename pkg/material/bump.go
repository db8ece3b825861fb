package material

import (
	"math"

	"github.com/df07/go-translucent/pkg/core"
)

// defaultBumpDelta is the finite-difference step used when no UV derivatives are known
const defaultBumpDelta = 0.0005

// Bump perturbs the shading frame of si by the displacement field d. The displacement
// is sampled at si and at small offsets along u and v, and the shading partial
// derivatives are tilted by the resulting slopes.
func Bump(d FloatSource, si *SurfaceInteraction) {
	displace := d.EvaluateFloat(si.UV, si.Point)

	du := 0.5 * (math.Abs(si.DUDX) + math.Abs(si.DUDY))
	if du == 0 {
		du = defaultBumpDelta
	}
	uDisplace := d.EvaluateFloat(
		si.UV.Add(core.NewVec2(du, 0)),
		si.Point.Add(si.Shading.DPDU.Multiply(du)),
	)

	dv := 0.5 * (math.Abs(si.DVDX) + math.Abs(si.DVDY))
	if dv == 0 {
		dv = defaultBumpDelta
	}
	vDisplace := d.EvaluateFloat(
		si.UV.Add(core.NewVec2(0, dv)),
		si.Point.Add(si.Shading.DPDV.Multiply(dv)),
	)

	n := si.Shading.Normal
	dpdu := si.Shading.DPDU.
		Add(n.Multiply((uDisplace - displace) / du)).
		Add(si.Shading.DNDU.Multiply(displace))
	dpdv := si.Shading.DPDV.
		Add(n.Multiply((vDisplace - displace) / dv)).
		Add(si.Shading.DNDV.Multiply(displace))

	si.SetShadingGeometry(dpdu, dpdv, si.Shading.DNDU, si.Shading.DNDV, false)
}
