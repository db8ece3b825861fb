package material

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-translucent/pkg/core"
)

// MaxBxDFs is the number of lobes a single BSDF can hold
const MaxBxDFs = 8

// BSDF collects the scattering lobes at a shading point and moves directions between
// world space and the local shading frame.
type BSDF struct {
	Eta float64 // Relative index of refraction across the boundary

	ns, ng  core.Vec3
	ss, ts  core.Vec3
	toLocal mgl64.Mat3

	bxdfs  [MaxBxDFs]BxDF
	nBxDFs int
}

// init sets up the shading frame from the interaction. Used by Arena.NewBSDF.
func (b *BSDF) init(si *SurfaceInteraction, eta float64) {
	b.Eta = eta
	b.ns = si.Shading.Normal
	b.ng = si.Normal
	b.ss = si.Shading.DPDU.Normalize()
	b.ts = b.ns.Cross(b.ss)
	b.toLocal = mgl64.Mat3FromRows(toMgl(b.ss), toMgl(b.ts), toMgl(b.ns))
	b.nBxDFs = 0
}

// Add appends a lobe. Lobes beyond MaxBxDFs are dropped.
func (b *BSDF) Add(bxdf BxDF) {
	if b.nBxDFs == MaxBxDFs {
		return
	}
	b.bxdfs[b.nBxDFs] = bxdf
	b.nBxDFs++
}

// NumComponents counts the lobes matching flags
func (b *BSDF) NumComponents(flags BxDFType) int {
	n := 0
	for i := 0; i < b.nBxDFs; i++ {
		if matchesFlags(b.bxdfs[i], flags) {
			n++
		}
	}
	return n
}

// Components returns the attached lobes
func (b *BSDF) Components() []BxDF {
	return b.bxdfs[:b.nBxDFs]
}

// ShadingNormal returns the normal of the local frame
func (b *BSDF) ShadingNormal() core.Vec3 {
	return b.ns
}

// WorldToLocal expresses v in the shading frame
func (b *BSDF) WorldToLocal(v core.Vec3) core.Vec3 {
	return fromMgl(b.toLocal.Mul3x1(toMgl(v)))
}

// LocalToWorld expresses a shading frame vector in world space
func (b *BSDF) LocalToWorld(v core.Vec3) core.Vec3 {
	return fromMgl(b.toLocal.Transpose().Mul3x1(toMgl(v)))
}

// F evaluates the non-delta lobes for a pair of world space directions
func (b *BSDF) F(woWorld, wiWorld core.Vec3, flags BxDFType) core.Vec3 {
	wo, wi := b.WorldToLocal(woWorld), b.WorldToLocal(wiWorld)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	reflect := wiWorld.Dot(b.ng)*woWorld.Dot(b.ng) > 0
	var f core.Vec3
	for i := 0; i < b.nBxDFs; i++ {
		bxdf := b.bxdfs[i]
		if !matchesFlags(bxdf, flags) {
			continue
		}
		if (reflect && bxdf.Type()&BxDFReflection != 0) || (!reflect && bxdf.Type()&BxDFTransmission != 0) {
			f = f.Add(bxdf.F(wo, wi))
		}
	}
	return f
}

// Sample picks one matching lobe with u1, samples it with u2 and returns the result with a
// world space direction. The PDF includes the probability of choosing the lobe.
func (b *BSDF) Sample(woWorld core.Vec3, u1 float64, u2 core.Vec2, flags BxDFType) (BxDFSample, bool) {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return BxDFSample{}, false
	}
	comp := min(int(u1*float64(matching)), matching-1)

	var chosen BxDF
	count := comp
	for i := 0; i < b.nBxDFs; i++ {
		if matchesFlags(b.bxdfs[i], flags) {
			if count == 0 {
				chosen = b.bxdfs[i]
				break
			}
			count--
		}
	}

	// Remap u2.X so the sampled lobe sees a fresh uniform value
	uRemapped := core.NewVec2(min(u1*float64(matching)-float64(comp), 1-1e-12), u2.Y)

	wo := b.WorldToLocal(woWorld)
	if wo.Z == 0 {
		return BxDFSample{}, false
	}
	sample, ok := chosen.Sample(wo, uRemapped)
	if !ok || sample.PDF == 0 {
		return BxDFSample{}, false
	}
	wiLocal := sample.Wi
	sample.Wi = b.LocalToWorld(wiLocal)

	if chosen.Type()&BxDFSpecular == 0 && matching > 1 {
		for i := 0; i < b.nBxDFs; i++ {
			if b.bxdfs[i] != chosen && matchesFlags(b.bxdfs[i], flags) {
				sample.PDF += b.bxdfs[i].PDF(wo, wiLocal)
			}
		}
		sample.F = b.F(woWorld, sample.Wi, flags)
	}
	if matching > 1 {
		sample.PDF /= float64(matching)
	}
	return sample, true
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
