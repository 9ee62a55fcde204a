package ballistics

import "math"

// dampingEpsilon is the damping coefficient below which the undamped
// closed form is used instead of the damped one, whose terms blow up as
// k approaches zero.
const dampingEpsilon = 1e-9

// ComputeLaunchVelocity returns the initial velocity that carries a
// projectile from launchPos to interceptPos in exactly t seconds under
// constant downward gravity (a positive magnitude) and linear damping
// coefficient k (zero for no air resistance).
//
// Undamped, the horizontal components are straight kinematics (dx/t, dz/t)
// and the vertical component adds 0.5*g*t to compensate for the parabolic
// drop over the flight.
//
// With damping, velocity obeys dv/dt = -k*v - g on the vertical axis and
// dv/dt = -k*v horizontally. Integrating twice and solving for the initial
// velocity that satisfies the position constraint at time t gives, with
// factor = (1 - e^(-k*t))/k:
//
//	vx = dx/factor
//	vz = dz/factor
//	vy = (dy + g*t/k)/factor - g/k
//
// This is a pure formula: it never validates t and never clamps speed.
// Feasibility is the solver's job.
func ComputeLaunchVelocity(launchPos, interceptPos Vec3, t, gravity, damping float64) Vec3 {
	delta := interceptPos.Sub(launchPos)

	if damping < dampingEpsilon {
		return Vec3{
			X: delta.X / t,
			Y: delta.Y/t + 0.5*gravity*t,
			Z: delta.Z / t,
		}
	}

	k := damping
	factor := (1 - math.Exp(-k*t)) / k
	return Vec3{
		X: delta.X / factor,
		Y: (delta.Y+gravity*t/k)/factor - gravity/k,
		Z: delta.Z / factor,
	}
}
