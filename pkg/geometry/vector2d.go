package geometry

import (
	"fmt"
	"math"
)

// Epsilon Precision constant used by approximate comparisons.
const (
	Epsilon = 1e-9
)

// Vector2D represents a 2D vector or point in arena space.
// Public fields keep literal initialization short: v := Vector2D{1, 2}
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D of length radius pointing at theta.
// Angles follow the arena convention: theta is measured clockwise from the +Y axis,
// so theta=0 points to (0, radius) and theta=Pi/2 points to (radius, 0).
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Sin(theta)
	y := radius * math.Cos(theta)

	// Handle standard floating point precision issues near zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// These methods use value receivers and return new Values.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// In-place mutators
// Only used while building intermediate geometry, never on shared state.
// ---------------------------------------------------------------------

// Scale multiplies both components by s in place.
func (v *Vector2D) Scale(s float64) {
	v.X *= s
	v.Y *= s
}

// NormalizeInPlace rescales v to unit length.
// A zero vector yields NaN components, exactly like dividing by its length would.
func (v *Vector2D) NormalizeInPlace() {
	d := v.Len()
	v.Scale(1.0 / d)
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// This is faster than Len() as it avoids the square root. Use for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{0, 0}
	}
	return v.Mul(1 / l)
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Rotate rotates the vector CLOCKWISE by angle (in radians) around the origin (0,0).
// This matches NewVectorPolar: rotating (0, r) by theta gives NewVectorPolar(r, theta).
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta + v.Y*sinTheta,
		Y: -v.X*sinTheta + v.Y*cosTheta,
	}
}

// RotateAround rotates the vector clockwise by angle (radians) around a specific center point.
func (v Vector2D) RotateAround(angle float64, center Vector2D) Vector2D {
	// Translate so center is origin, rotate, translate back
	return center.Add(v.Sub(center).Rotate(angle))
}

// Clamp returns v with each component limited to [0,maxX] × [0,maxY].
func (v Vector2D) Clamp(maxX, maxY float64) Vector2D {
	return Vector2D{
		X: math.Min(math.Max(v.X, 0), maxX),
		Y: math.Min(math.Max(v.Y, 0), maxY),
	}
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
