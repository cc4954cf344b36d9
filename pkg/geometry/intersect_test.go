package geometry

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestSegmentIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Vector2D
		wantHit        bool
		wantUa         float64
		wantPoint      Vector2D
	}{
		{"Cross at center", Vector2D{0, 0}, Vector2D{10, 10}, Vector2D{0, 10}, Vector2D{10, 0}, true, 0.5, Vector2D{5, 5}},
		{"Cross near start", Vector2D{0, 0}, Vector2D{10, 0}, Vector2D{2, -5}, Vector2D{2, 5}, true, 0.2, Vector2D{2, 0}},
		{"Parallel", Vector2D{0, 0}, Vector2D{10, 0}, Vector2D{0, 1}, Vector2D{10, 1}, false, 0, Vector2D{}},
		{"Collinear overlapping", Vector2D{0, 0}, Vector2D{10, 0}, Vector2D{5, 0}, Vector2D{15, 0}, false, 0, Vector2D{}},
		{"Lines cross outside segments", Vector2D{0, 0}, Vector2D{1, 1}, Vector2D{0, 10}, Vector2D{10, 0}, false, 0, Vector2D{}},
		{"Touching endpoint", Vector2D{0, 0}, Vector2D{5, 0}, Vector2D{5, -5}, Vector2D{5, 5}, false, 0, Vector2D{}},
		{"Endpoint on segment", Vector2D{0, 0}, Vector2D{10, 0}, Vector2D{5, 0}, Vector2D{5, 5}, false, 0, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := SegmentIntersect(tt.p1, tt.p2, tt.p3, tt.p4)
			if ok != tt.wantHit {
				t.Fatalf("SegmentIntersect hit = %v; want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if !floatEquals(hit.Ua, tt.wantUa) {
				t.Errorf("ua = %v; want %v", hit.Ua, tt.wantUa)
			}
			if !hit.Point.Eq(tt.wantPoint) {
				t.Errorf("point = %v; want %v", hit.Point, tt.wantPoint)
			}
		})
	}
}

// TestSegmentIntersect_PointOnBothSegments checks random proper crossings:
// both parameters lie in (0,1) and the reported point sits on both segments.
func TestSegmentIntersect_PointOnBothSegments(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	checked := 0
	for i := 0; i < 2000; i++ {
		p1 := Vector2D{rng.Float64() * 100, rng.Float64() * 100}
		p2 := Vector2D{rng.Float64() * 100, rng.Float64() * 100}
		p3 := Vector2D{rng.Float64() * 100, rng.Float64() * 100}
		p4 := Vector2D{rng.Float64() * 100, rng.Float64() * 100}
		hit, ok := SegmentIntersect(p1, p2, p3, p4)
		if !ok {
			continue
		}
		checked++
		if hit.Ua <= 0 || hit.Ua >= 1 || hit.Ub <= 0 || hit.Ub >= 1 {
			t.Fatalf("parameters out of (0,1): ua=%v ub=%v", hit.Ua, hit.Ub)
		}
		onSecond := p3.Add(p4.Sub(p3).Mul(hit.Ub))
		if math.Abs(onSecond.X-hit.Point.X) > 1e-6 || math.Abs(onSecond.Y-hit.Point.Y) > 1e-6 {
			t.Fatalf("point %v not on second segment (%v)", hit.Point, onSecond)
		}
	}
	if checked == 0 {
		t.Fatal("no crossing generated")
	}
}

func TestSegmentCircleIntersect(t *testing.T) {
	tests := []struct {
		name    string
		p1, p2  Vector2D
		center  Vector2D
		radius  float64
		wantHit bool
		wantUa  float64
	}{
		{"Ray through center", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{50, 0}, 10, true, 0.5},
		{"Ray grazing inside radius", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{25, 8}, 10, true, 0.25},
		{"Center on the other side", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{25, -8}, 10, true, 0.25},
		{"Vertical ray uses y axis", Vector2D{10, 0}, Vector2D{10, 80}, Vector2D{14, 20}, 10, true, 0.25},
		{"Too far from line", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{50, 11}, 10, false, 0},
		{"Foot beyond segment end", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{105, 0}, 10, false, 0},
		{"Foot before segment start", Vector2D{0, 0}, Vector2D{100, 0}, Vector2D{-3, 0}, 10, false, 0},
		{"Degenerate segment", Vector2D{5, 5}, Vector2D{5, 5}, Vector2D{5, 5}, 10, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := SegmentCircleIntersect(tt.p1, tt.p2, tt.center, tt.radius)
			if ok != tt.wantHit {
				t.Fatalf("SegmentCircleIntersect hit = %v; want %v (hit=%+v)", ok, tt.wantHit, hit)
			}
			if ok && !floatEquals(hit.Ua, tt.wantUa) {
				t.Errorf("ua = %v; want %v", hit.Ua, tt.wantUa)
			}
		})
	}
}

// TestSegmentCircleIntersect_FarCircle checks that circles strictly farther from the ray's
// line than their radius are never reported.
func TestSegmentCircleIntersect_FarCircle(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 1000; i++ {
		p1 := Vector2D{rng.Float64() * 100, rng.Float64() * 100}
		p2 := p1.Add(NewVectorPolar(85, rng.Float64()*2*math.Pi))
		dir := p2.Sub(p1).Normalize()
		normal := Vector2D{-dir.Y, dir.X}
		radius := 1 + rng.Float64()*10
		along := p1.Add(dir.Mul(rng.Float64() * 85))
		center := along.Add(normal.Mul(radius + 0.5 + rng.Float64()*20))
		if hit, ok := SegmentCircleIntersect(p1, p2, center, radius); ok {
			t.Fatalf("unexpected hit %+v for center %v radius %v", hit, center, radius)
		}
	}
}
