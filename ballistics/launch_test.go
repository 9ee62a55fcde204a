package ballistics

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// Tolerance for closed-form component checks
	launchTolerance = 1e-9
	// Tolerance for positions recovered by numerical integration
	integrationTolerance = 1e-3
)

func TestComputeLaunchVelocityUndamped(t *testing.T) {
	cases := []struct {
		name         string
		launchPos    Vec3
		interceptPos Vec3
		flightTime   float64
		gravity      float64
		want         Vec3
		description  string
	}{
		{
			name:         "FlatThrow",
			launchPos:    V3(0, 0, 0),
			interceptPos: V3(10, 0, 0),
			flightTime:   2,
			gravity:      9.81,
			want:         V3(5, 9.81, 0),
			description:  "Level 10m throw over 2s: vx=10/2, vy=0.5*g*2",
		},
		{
			name:         "UphillThrow",
			launchPos:    V3(0, 0, 0),
			interceptPos: V3(6, 3, 8),
			flightTime:   1,
			gravity:      10,
			want:         V3(6, 8, 8),
			description:  "Rising target: vy = 3/1 + 0.5*10*1",
		},
		{
			name:         "DownhillThrow",
			launchPos:    V3(0, 5, 0),
			interceptPos: V3(4, 0, 0),
			flightTime:   2,
			gravity:      10,
			want:         V3(2, 7.5, 0),
			description:  "Falling 5m: vy = -5/2 + 0.5*10*2",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeLaunchVelocity(tc.launchPos, tc.interceptPos, tc.flightTime, tc.gravity, 0)
			if !scalar.EqualWithinAbs(got.X, tc.want.X, launchTolerance) ||
				!scalar.EqualWithinAbs(got.Y, tc.want.Y, launchTolerance) ||
				!scalar.EqualWithinAbs(got.Z, tc.want.Z, launchTolerance) {
				t.Errorf("%s: expected %v, got %v", tc.description, tc.want, got)
			}
		})
	}
}

// TestRoundTripUndamped verifies that the computed launch velocity really
// does carry the projectile to the intercept point: closed-form kinematics
// forward for the flight time must land on target.
func TestRoundTripUndamped(t *testing.T) {
	launchPos := V3(1, 2, 3)
	interceptPos := V3(12, 4, -7)
	flightTime := 1.7
	gravity := 9.81

	v0 := ComputeLaunchVelocity(launchPos, interceptPos, flightTime, gravity, 0)

	landed := launchPos.
		Add(v0.Scale(flightTime)).
		Add(V3(0, -0.5*gravity*flightTime*flightTime, 0))

	if dist := landed.Distance(interceptPos); dist > launchTolerance {
		t.Errorf("Projectile missed intercept by %g: landed %v, wanted %v", dist, landed, interceptPos)
	}
}

// TestRoundTripDamped integrates dv/dt = -k*v - g numerically from the
// closed-form initial velocity and checks the projectile arrives at the
// intercept point at the requested time.
func TestRoundTripDamped(t *testing.T) {
	cases := []struct {
		name       string
		damping    float64
		flightTime float64
	}{
		{name: "LightDamping", damping: 0.1, flightTime: 1.5},
		{name: "HeavyDamping", damping: 1.2, flightTime: 0.8},
		{name: "LongFlight", damping: 0.3, flightTime: 4.0},
	}

	launchPos := V3(0, 1, 0)
	interceptPos := V3(15, 2, -6)
	gravity := 9.81

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v0 := ComputeLaunchVelocity(launchPos, interceptPos, tc.flightTime, gravity, tc.damping)
			landed := integrateDamped(launchPos, v0, gravity, tc.damping, tc.flightTime)

			if dist := landed.Distance(interceptPos); dist > integrationTolerance {
				t.Errorf("Damped projectile missed intercept by %g: landed %v, wanted %v",
					dist, landed, interceptPos)
			}
		})
	}
}

func TestDampingEpsilonFallsBackToUndamped(t *testing.T) {
	launchPos := V3(0, 0, 0)
	interceptPos := V3(10, 0, 0)

	damped := ComputeLaunchVelocity(launchPos, interceptPos, 2, 9.81, 1e-10)
	undamped := ComputeLaunchVelocity(launchPos, interceptPos, 2, 9.81, 0)
	if damped != undamped {
		t.Errorf("Near-zero damping should use the undamped form: got %v vs %v", damped, undamped)
	}
}

// integrateDamped advances a projectile under dv/dt = -k*v - g with
// classical RK4 on the coupled position/velocity system.
func integrateDamped(pos, vel Vec3, gravity, k, duration float64) Vec3 {
	const steps = 20000
	dt := duration / steps
	gVec := V3(0, -gravity, 0)

	accel := func(v Vec3) Vec3 {
		return v.Scale(-k).Add(gVec)
	}

	for i := 0; i < steps; i++ {
		k1v := accel(vel)
		k1x := vel

		k2v := accel(vel.Add(k1v.Scale(dt / 2)))
		k2x := vel.Add(k1v.Scale(dt / 2))

		k3v := accel(vel.Add(k2v.Scale(dt / 2)))
		k3x := vel.Add(k2v.Scale(dt / 2))

		k4v := accel(vel.Add(k3v.Scale(dt)))
		k4x := vel.Add(k3v.Scale(dt))

		vel = vel.Add(k1v.Add(k2v.Scale(2)).Add(k3v.Scale(2)).Add(k4v).Scale(dt / 6))
		pos = pos.Add(k1x.Add(k2x.Scale(2)).Add(k3x.Scale(2)).Add(k4x).Scale(dt / 6))
	}
	return pos
}

func BenchmarkComputeLaunchVelocity(b *testing.B) {
	launchPos := V3(0, 1, 0)
	interceptPos := V3(20, 2, 5)

	b.Run("Undamped", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ComputeLaunchVelocity(launchPos, interceptPos, 1.5, 9.81, 0)
		}
	})
	b.Run("Damped", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ComputeLaunchVelocity(launchPos, interceptPos, 1.5, 9.81, 0.4)
		}
	})
}
