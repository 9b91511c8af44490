package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Body     *Body
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// RayOptions filters a ray cast. A zero Mask matches every body.
type RayOptions struct {
	Mask Tag
	Skip *Body
}

// Raycast returns the closest body hit on the segment from..to. Bodies are
// visited dynamic first then static, and the first of equally close hits wins.
func (w *World) Raycast(from, to rl.Vector3, opts RayOptions) (RaycastHit, bool) {
	delta := rl.Vector3Subtract(to, from)
	maxDistance := rl.Vector3Length(delta)
	if maxDistance == 0 {
		return RaycastHit{}, false
	}
	direction := rl.Vector3Scale(delta, 1/maxDistance)

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	check := func(b *Body) {
		if b == opts.Skip {
			return
		}
		if opts.Mask != 0 && !b.Tags.Any(opts.Mask) {
			return
		}
		var (
			h  RaycastHit
			ok bool
		)
		switch b.Shape {
		case ShapeSphere:
			h, ok = raycastSphere(from, direction, b.Position, b.Radius, maxDistance)
		case ShapeBox:
			h, ok = raycastConvex(from, direction, b.AABB().planes(), maxDistance)
		case ShapePrism:
			h, ok = raycastConvex(from, direction, prismPlanes(b), maxDistance)
		}
		if ok && (h.Distance < closestHit.Distance || !hit && h.Distance <= closestHit.Distance) {
			closestHit = h
			closestHit.Body = b
			hit = true
		}
	}

	for _, b := range w.dynamics {
		check(b)
	}
	for _, b := range w.statics {
		check(b)
	}
	return closestHit, hit
}

// raycastConvex clips the ray against the half-spaces of a convex solid.
// A ray starting inside reports a hit at distance zero.
func raycastConvex(origin, direction rl.Vector3, planes []halfSpace, maxDistance float32) (RaycastHit, bool) {
	tEnter := float32(-math.MaxFloat32)
	tExit := float32(math.MaxFloat32)
	var normal rl.Vector3

	for _, p := range planes {
		denom := rl.Vector3DotProduct(p.Normal, direction)
		dist := -p.signedDistance(origin)
		if denom == 0 {
			if dist < 0 {
				return RaycastHit{}, false
			}
			continue
		}
		t := dist / denom
		if denom < 0 {
			if t > tEnter {
				tEnter = t
				normal = p.Normal
			}
		} else if t < tExit {
			tExit = t
		}
		if tEnter > tExit {
			return RaycastHit{}, false
		}
	}

	if tExit < 0 {
		return RaycastHit{}, false
	}
	t := tEnter
	if t < 0 {
		t = 0
		normal = rl.Vector3Negate(direction)
	}
	if t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := (-b - sqrt(discriminant)) / (2 * a)
	if t < 0 {
		t = (-b + sqrt(discriminant)) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
