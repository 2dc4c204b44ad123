package component

// Knockbackable marks entities whose physics body reacts to damage impulses.
// MaxDeltaV caps the velocity change a single hit may add along the impulse
// direction; zero means the default cap.
type Knockbackable struct {
	MaxDeltaV float64
}

var KnockbackableComponent = NewComponent[Knockbackable]()
