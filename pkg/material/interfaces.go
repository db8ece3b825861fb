package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// Material interface for surfaces that attach scattering functions to a shading point
type Material interface {
	// ComputeScatteringFunctions fills the BSDF (and BSSRDF, if any) slots of si.
	// Everything it allocates comes from arena and is only valid until arena.Reset.
	ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool)
}

// TransportMode tells a scattering function which quantity is being carried along a path
type TransportMode int

const (
	// Radiance is carried on paths traced from the camera
	Radiance TransportMode = iota
	// Importance is carried on paths traced from the lights
	Importance
)

func (m TransportMode) String() string {
	switch m {
	case Radiance:
		return "radiance"
	case Importance:
		return "importance"
	}
	return "unknown"
}

// ParseTransportMode converts "radiance" or "importance" into a TransportMode
func ParseTransportMode(s string) (TransportMode, bool) {
	switch s {
	case "radiance":
		return Radiance, true
	case "importance":
		return Importance, true
	}
	return Radiance, false
}

// ShadingGeometry is the (possibly perturbed) frame used for shading
type ShadingGeometry struct {
	Normal     core.Vec3
	DPDU, DPDV core.Vec3
	DNDU, DNDV core.Vec3
}

// SurfaceInteraction contains information about a ray-surface intersection.
// It is the shading point: the BSDF and BSSRDF slots are filled by a Material.
type SurfaceInteraction struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Geometric surface normal
	UV        core.Vec2 // Surface parameterization
	Wo        core.Vec3 // Direction towards the ray origin
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face

	DPDU, DPDV core.Vec3
	DNDU, DNDV core.Vec3

	// Screen-space derivatives of UV; zero when ray differentials are unavailable
	DUDX, DUDY, DVDX, DVDY float64

	Shading  ShadingGeometry
	Material Material

	BSDF   *BSDF
	BSSRDF *TabulatedBSSRDF
}

// NewSurfaceInteraction builds an interaction whose geometric and shading frames both come
// from the surface partial derivatives.
func NewSurfaceInteraction(point core.Vec3, uv core.Vec2, wo, dpdu, dpdv, dndu, dndv core.Vec3) SurfaceInteraction {
	n := dpdu.Cross(dpdv).Normalize()
	return SurfaceInteraction{
		Point:     point,
		Normal:    n,
		UV:        uv,
		Wo:        wo,
		FrontFace: wo.Dot(n) >= 0,
		DPDU:      dpdu,
		DPDV:      dpdv,
		DNDU:      dndu,
		DNDV:      dndv,
		Shading: ShadingGeometry{
			Normal: n,
			DPDU:   dpdu,
			DPDV:   dpdv,
			DNDU:   dndu,
			DNDV:   dndv,
		},
	}
}

// SetShadingGeometry replaces the shading frame. When the new frame is authoritative the
// geometric normal is flipped to agree with it; otherwise the shading normal follows the
// geometric one.
func (si *SurfaceInteraction) SetShadingGeometry(dpdus, dpdvs, dndus, dndvs core.Vec3, orientationIsAuthoritative bool) {
	si.Shading.Normal = dpdus.Cross(dpdvs).Normalize()
	if orientationIsAuthoritative {
		si.Normal = si.Normal.FaceForward(si.Shading.Normal)
	} else {
		si.Shading.Normal = si.Shading.Normal.FaceForward(si.Normal)
	}
	si.Shading.DPDU = dpdus
	si.Shading.DPDV = dpdvs
	si.Shading.DNDU = dndus
	si.Shading.DNDV = dndvs
}

// ClearScatteringFunctions drops the references to arena-owned scattering functions
func (si *SurfaceInteraction) ClearScatteringFunctions() {
	si.BSDF = nil
	si.BSSRDF = nil
}
