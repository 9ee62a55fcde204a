// Package ballistics computes the launch velocity a projectile needs to
// arrive at a moving target's future position under constant gravity and
// optional linear air damping. It is the decision core a gameplay AI uses
// to choose when and how fast to release a pass or shot; the caller owns
// everything else (trajectory simulation, collision, animation).
//
// Everything in this package is a pure computation over immutable value
// types: no I/O, no shared state, no errors. Concurrent calls from any
// number of goroutines need no synchronization.
package ballistics

import "math"

// normalizeEpsilon is the length below which a vector is treated as zero
// when normalizing, to avoid dividing by near-zero.
const normalizeEpsilon = 1e-12

// Vec3 represents a 3D vector. Y is up. All operations return new values.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add returns the vector sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the vector difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns the scalar product v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns the squared magnitude of v. Cheaper than Length
// when only comparing distances.
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns v scaled to unit length. A vector shorter than
// normalizeEpsilon yields the zero vector; that is the defined degenerate
// behavior, not an error.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length < normalizeEpsilon {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}
