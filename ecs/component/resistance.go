package component

// Resistance reduces incoming damage before it reaches health.
// Flat is subtracted first, then Ratio (0..1) of the remainder is absorbed.
type Resistance struct {
	Flat  float64
	Ratio float64
}

var ResistanceComponent = NewComponent[Resistance]()
