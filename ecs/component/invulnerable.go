package component

// Invulnerable marks an entity as immune to damage. Incoming damage is vetoed
// while the component is present. If Frames > 0 the invulnerability system
// counts it down each update and removes the component when it reaches zero.
// Frames == 0 means indefinite invulnerability until explicitly removed.
type Invulnerable struct {
	Frames int
}

var InvulnerableComponent = NewComponent[Invulnerable]()
