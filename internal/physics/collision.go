package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// manifold describes how far a sphere has sunk into another shape. Normal
// points out of the other shape toward the sphere.
type manifold struct {
	Normal rl.Vector3
	Depth  float32
}

// collideSphere tests a sphere at center with radius against other.
func collideSphere(center rl.Vector3, radius float32, other *Body) (manifold, bool) {
	switch other.Shape {
	case ShapeSphere:
		return sphereVsSphere(center, radius, other.Position, other.Radius)
	case ShapeBox:
		box := other.AABB()
		return sphereVsConvex(center, radius, box.ClosestPoint(center), box.Contains(center), box.planes())
	case ShapePrism:
		closest, inside := closestPointOnPrism(other, center)
		return sphereVsConvex(center, radius, closest, inside, prismPlanes(other))
	}
	return manifold{}, false
}

func sphereVsSphere(a rl.Vector3, ra float32, b rl.Vector3, rb float32) (manifold, bool) {
	diff := rl.Vector3Subtract(a, b)
	dist := rl.Vector3Length(diff)
	minDist := ra + rb
	if dist >= minDist {
		return manifold{}, false
	}
	if dist < 0.0001 {
		return manifold{Normal: rl.Vector3{Y: 1}, Depth: minDist}, true
	}
	return manifold{Normal: rl.Vector3Scale(diff, 1/dist), Depth: minDist - dist}, true
}

// sphereVsConvex resolves a sphere against a convex solid given the closest
// surface point. When the center is inside, the shallowest face wins.
func sphereVsConvex(center rl.Vector3, radius float32, closest rl.Vector3, inside bool, planes []halfSpace) (manifold, bool) {
	if inside {
		best := planes[0]
		bestDepth := -best.signedDistance(center)
		for _, p := range planes[1:] {
			if d := -p.signedDistance(center); d < bestDepth {
				best, bestDepth = p, d
			}
		}
		return manifold{Normal: best.Normal, Depth: radius + bestDepth}, true
	}

	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= radius || dist < 0.0001 {
		return manifold{}, false
	}
	return manifold{Normal: rl.Vector3Scale(diff, 1/dist), Depth: radius - dist}, true
}

// closestPointOnPrism returns the point of the solid prism nearest to p and
// whether p lies inside it.
func closestPointOnPrism(b *Body, p rl.Vector3) (rl.Vector3, bool) {
	half := b.Height / 2
	bottom, top := b.Position.Y-half, b.Position.Y+half
	inradius := b.Radius / 2

	inside2D := true
	for _, n := range prismEdgeNormals {
		if n.X*(p.X-b.Position.X)+n.Z*(p.Z-b.Position.Z) > inradius {
			inside2D = false
			break
		}
	}

	y := clamp(p.Y, bottom, top)
	if inside2D {
		return rl.Vector3{X: p.X, Y: y, Z: p.Z}, p.Y >= bottom && p.Y <= top
	}

	q := rl.Vector2{X: p.X, Y: p.Z}
	verts := PrismVertices(b.Position.X, b.Position.Z, b.Radius)
	best := closestPointOnSegment2D(q, verts[0], verts[1])
	bestDist := rl.Vector2DistanceSqr(q, best)
	for i := 1; i < 3; i++ {
		c := closestPointOnSegment2D(q, verts[i], verts[(i+1)%3])
		if d := rl.Vector2DistanceSqr(q, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return rl.Vector3{X: best.X, Y: y, Z: best.Y}, false
}
