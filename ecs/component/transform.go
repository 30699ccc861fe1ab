package component

// Transform is the pet's top-left corner in global screen pixels.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
