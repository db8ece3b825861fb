package material

import (
	"github.com/df07/go-translucent/pkg/core"
)

// ColorSource provides spatially-varying colors (RGB spectra) for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// FloatSource provides spatially-varying scalar values, e.g. bump displacement
type FloatSource interface {
	EvaluateFloat(uv core.Vec2, point core.Vec3) float64
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// ConstantFloat provides a uniform scalar
type ConstantFloat struct {
	Value float64
}

// NewConstantFloat creates a new constant scalar source
func NewConstantFloat(value float64) *ConstantFloat {
	return &ConstantFloat{Value: value}
}

// EvaluateFloat returns the constant regardless of UV or position
func (c *ConstantFloat) EvaluateFloat(uv core.Vec2, point core.Vec3) float64 {
	return c.Value
}

// ScaledFloat multiplies a scalar source by a constant
type ScaledFloat struct {
	Source FloatSource
	Scale  float64
}

// EvaluateFloat returns the scaled value
func (s *ScaledFloat) EvaluateFloat(uv core.Vec2, point core.Vec3) float64 {
	return s.Scale * s.Source.EvaluateFloat(uv, point)
}
