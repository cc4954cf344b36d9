package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2)
	if v.X != 1 || v.Y != 2 {
		t.Errorf("NewVector(1, 2) = %v; want (1, 2)", v)
	}
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (Y-axis)", 10, 0, Vector2D{0, 10}},
		{"90 degrees clockwise (X-axis)", 10, math.Pi / 2, Vector2D{10, 0}},
		{"180 degrees (Negative Y)", 10, math.Pi, Vector2D{0, -10}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 11 {
			t.Errorf("%v.Dot(%v) = %v; want 11", v1, v2, got)
		}
	})
}

func TestVector_Mutators(t *testing.T) {
	t.Run("Scale", func(t *testing.T) {
		v := Vector2D{1, -2}
		v.Scale(3)
		if !v.Eq(Vector2D{3, -6}) {
			t.Errorf("Scale(3) = %v; want (3, -6)", v)
		}
	})

	t.Run("NormalizeInPlace", func(t *testing.T) {
		v := Vector2D{3, 4}
		v.NormalizeInPlace()
		if !v.Eq(Vector2D{0.6, 0.8}) {
			t.Errorf("NormalizeInPlace = %v; want (0.6, 0.8)", v)
		}
	})

	t.Run("NormalizeInPlaceZero", func(t *testing.T) {
		v := Vector2D{0, 0}
		v.NormalizeInPlace()
		if !math.IsNaN(v.X) || !math.IsNaN(v.Y) {
			t.Errorf("NormalizeInPlace(0,0) = %v; want NaN components", v)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector2D{0.6, 0.8}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		zero := Vector2D{0, 0}
		got := zero.Normalize()
		if !got.Eq(zero) {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Transformations(t *testing.T) {
	t.Run("Rotate", func(t *testing.T) {
		v := Vector2D{0, 1}
		// Rotate 90 deg clockwise
		got := v.Rotate(math.Pi / 2)
		want := Vector2D{1, 0}
		if !got.Eq(want) {
			t.Errorf("Rotate(90) = %v; want %v", got, want)
		}
	})

	t.Run("RotateMatchesPolar", func(t *testing.T) {
		for _, theta := range []float64{-2, -0.75, 0, 0.25, 1, 3} {
			got := Vector2D{0, 85}.Rotate(theta)
			want := NewVectorPolar(85, theta)
			if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
				t.Errorf("Rotate(%v) = %v; want %v", theta, got, want)
			}
		}
	})

	t.Run("RotateAround", func(t *testing.T) {
		// Rotate (1, 2) around (1, 1) by 90 degrees clockwise
		// Relative vector is (0, 1). Rotated is (1, 0).
		// Add center (1, 1) -> Result (2, 1)
		v := Vector2D{1, 2}
		center := Vector2D{1, 1}
		got := v.RotateAround(math.Pi/2, center)
		want := Vector2D{2, 1}
		if !got.Eq(want) {
			t.Errorf("RotateAround = %v; want %v", got, want)
		}
	})

	t.Run("Clamp", func(t *testing.T) {
		tests := []struct {
			in, want Vector2D
		}{
			{Vector2D{-5, 10}, Vector2D{0, 10}},
			{Vector2D{800, 600}, Vector2D{700, 512}},
			{Vector2D{350, 256}, Vector2D{350, 256}},
		}
		for _, tt := range tests {
			if got := tt.in.Clamp(700, 512); !got.Eq(tt.want) {
				t.Errorf("%v.Clamp = %v; want %v", tt.in, got, tt.want)
			}
		}
	})
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	// Exact match
	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	// Epsilon match
	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	// No match
	vDiff := Vector2D{1.1, 2}
	if v.Eq(vDiff) {
		t.Error("Eq mismatch failed")
	}
}
