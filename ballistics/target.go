package ballistics

// MovingTarget is a point mass whose future position is kinematically
// extrapolated from its current state. Acceleration is optional; the zero
// value means constant velocity.
type MovingTarget struct {
	Position     Vec3 `json:"position"`
	Velocity     Vec3 `json:"velocity"`
	Acceleration Vec3 `json:"acceleration"`
}

// Predict returns the target's extrapolated position after t seconds:
// position + velocity*t + 0.5*acceleration*t². At t = 0 the current
// position is returned exactly.
func (m MovingTarget) Predict(t float64) Vec3 {
	if t == 0 {
		return m.Position
	}
	return m.Position.
		Add(m.Velocity.Scale(t)).
		Add(m.Acceleration.Scale(0.5 * t * t))
}
