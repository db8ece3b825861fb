package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

const slabChunkSize = 64

// slab hands out zeroed values from fixed-size chunks. Chunks never move, so pointers stay
// valid until reset.
type slab[T any] struct {
	chunks [][]T
	n      int
}

func (s *slab[T]) alloc() *T {
	c := s.n / slabChunkSize
	if c == len(s.chunks) {
		s.chunks = append(s.chunks, make([]T, slabChunkSize))
	}
	p := &s.chunks[c][s.n%slabChunkSize]
	s.n++
	var zero T
	*p = zero
	return p
}

func (s *slab[T]) reset() {
	s.n = 0
}

// Arena owns the short-lived scattering objects built during one shading evaluation.
// An Arena is not safe for concurrent use; give each worker its own.
type Arena struct {
	generation uint64

	bsdfs         slab[BSDF]
	reflections   slab[SpecularReflection]
	transmissions slab[SpecularTransmission]
	fresnelSpecs  slab[FresnelSpecular]
	fresnels      slab[FresnelDielectric]
	bssrdfs       slab[TabulatedBSSRDF]
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Reset releases everything allocated since the previous reset. Pointers handed out
// before the call must not be used afterwards.
func (a *Arena) Reset() {
	a.bsdfs.reset()
	a.reflections.reset()
	a.transmissions.reset()
	a.fresnelSpecs.reset()
	a.fresnels.reset()
	a.bssrdfs.reset()
	a.generation++
}

// Generation counts the resets performed so far
func (a *Arena) Generation() uint64 {
	return a.generation
}

// Allocated returns the number of live objects
func (a *Arena) Allocated() int {
	return a.bsdfs.n + a.reflections.n + a.transmissions.n + a.fresnelSpecs.n + a.fresnels.n + a.bssrdfs.n
}

// NewBSDF allocates an empty BSDF bound to the shading frame of si
func (a *Arena) NewBSDF(si *SurfaceInteraction, eta float64) *BSDF {
	b := a.bsdfs.alloc()
	b.init(si, eta)
	return b
}

// NewFresnelDielectric allocates a dielectric Fresnel term
func (a *Arena) NewFresnelDielectric(etaI, etaT float64) *FresnelDielectric {
	f := a.fresnels.alloc()
	f.EtaI, f.EtaT = etaI, etaT
	return f
}

// NewSpecularReflection allocates a mirror lobe
func (a *Arena) NewSpecularReflection(r core.Vec3, fresnel Fresnel) *SpecularReflection {
	s := a.reflections.alloc()
	s.R = r
	s.Fresnel = fresnel
	return s
}

// NewSpecularTransmission allocates a refraction lobe
func (a *Arena) NewSpecularTransmission(t core.Vec3, etaA, etaB float64, mode TransportMode) *SpecularTransmission {
	s := a.transmissions.alloc()
	*s = NewSpecularTransmission(t, etaA, etaB, mode)
	return s
}

// NewFresnelSpecular allocates a combined reflection and transmission lobe
func (a *Arena) NewFresnelSpecular(r, t core.Vec3, etaA, etaB float64, mode TransportMode) *FresnelSpecular {
	f := a.fresnelSpecs.alloc()
	*f = FresnelSpecular{R: r, T: t, EtaA: etaA, EtaB: etaB, Mode: mode}
	return f
}

// NewTabulatedBSSRDF allocates a subsurface transport descriptor
func (a *Arena) NewTabulatedBSSRDF(si *SurfaceInteraction, mat Material, table *BSSRDFTable,
	sigmaA, sigmaS core.Vec3, eta float64, mode TransportMode) *TabulatedBSSRDF {
	b := a.bssrdfs.alloc()
	b.init(si, mat, table, sigmaA, sigmaS, eta, mode)
	return b
}
