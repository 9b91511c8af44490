package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// halfSpace is the set of points p with Normal·p <= D.
type halfSpace struct {
	Normal rl.Vector3
	D      float32
}

func (h halfSpace) signedDistance(p rl.Vector3) float32 {
	return rl.Vector3DotProduct(h.Normal, p) - h.D
}

// prismEdgeNormals are the outward side normals of an upright prism whose
// vertices sit at 0, 120 and 240 degrees, written as (sin, cos) on XZ.
var prismEdgeNormals = func() [3]rl.Vector3 {
	var n [3]rl.Vector3
	for i := range n {
		a := float64(60+120*i) * math.Pi / 180
		n[i] = rl.Vector3{X: float32(math.Sin(a)), Z: float32(math.Cos(a))}
	}
	return n
}()

// PrismVertices returns the three footprint corners of an upright prism
// centred at (x, z) on the XZ plane.
func PrismVertices(x, z, radius float32) [3]rl.Vector2 {
	var v [3]rl.Vector2
	for i := range v {
		a := float64(120*i) * math.Pi / 180
		v[i] = rl.Vector2{X: x + radius*float32(math.Sin(a)), Y: z + radius*float32(math.Cos(a))}
	}
	return v
}

// prismPlanes returns the five half-spaces bounding a prism body.
func prismPlanes(b *Body) []halfSpace {
	inradius := b.Radius / 2
	half := b.Height / 2
	planes := make([]halfSpace, 0, 5)
	planes = append(planes,
		halfSpace{rl.Vector3{Y: 1}, b.Position.Y + half},
		halfSpace{rl.Vector3{Y: -1}, -(b.Position.Y - half)},
	)
	for _, n := range prismEdgeNormals {
		planes = append(planes, halfSpace{n, rl.Vector3DotProduct(n, b.Position) + inradius})
	}
	return planes
}

// closestPointOnSegment2D projects p onto segment ab.
func closestPointOnSegment2D(p, a, b rl.Vector2) rl.Vector2 {
	ab := rl.Vector2Subtract(b, a)
	lenSq := rl.Vector2DotProduct(ab, ab)
	if lenSq == 0 {
		return a
	}
	t := clamp(rl.Vector2DotProduct(rl.Vector2Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector2Add(a, rl.Vector2Scale(ab, t))
}
