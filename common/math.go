package common

// Vector3 is a direction and magnitude in simulation space.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
