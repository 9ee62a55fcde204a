package ballistics

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPredictAtZeroIsExact(t *testing.T) {
	target := MovingTarget{
		Position:     V3(3.7, 1.1, -2.9),
		Velocity:     V3(0.1, 0.2, 0.3),
		Acceleration: V3(-0.4, 0, 0.6),
	}

	// At T=0 the current position must come back bit-identical, with no
	// drift from the extrapolation terms.
	if got := target.Predict(0); got != target.Position {
		t.Errorf("Predict(0): expected %v exactly, got %v", target.Position, got)
	}
}

func TestPredictConstantVelocity(t *testing.T) {
	target := MovingTarget{
		Position: V3(0, 0, 0),
		Velocity: V3(2, 0, -1),
	}
	got := target.Predict(3)
	want := V3(6, 0, -3)
	if got != want {
		t.Errorf("Predict(3): expected %v, got %v", want, got)
	}
}

func TestPredictWithAcceleration(t *testing.T) {
	target := MovingTarget{
		Position:     V3(1, 0, 0),
		Velocity:     V3(1, 0, 0),
		Acceleration: V3(2, 0, 4),
	}
	got := target.Predict(2)
	// 1 + 1*2 + 0.5*2*4 = 7 on X, 0.5*4*4 = 8 on Z
	if !scalar.EqualWithinAbs(got.X, 7, 1e-12) || !scalar.EqualWithinAbs(got.Z, 8, 1e-12) {
		t.Errorf("Predict(2): expected (7,0,8), got %v", got)
	}
}
