package motion

// Pointer is one sample of the global pointer position.
type Pointer struct {
	X, Y  float64
	Moved bool
}

// Tracker turns raw pointer samples into Pointer values with a Moved flag.
type Tracker struct {
	lastX, lastY float64
	seen         bool
}

// Poll records (x, y) and reports whether it differs from the previous poll.
// The first poll never reports movement.
func (t *Tracker) Poll(x, y float64) Pointer {
	moved := t.seen && (x != t.lastX || y != t.lastY)
	t.lastX, t.lastY = x, y
	t.seen = true
	return Pointer{X: x, Y: y, Moved: moved}
}

func (t *Tracker) Reset() {
	*t = Tracker{}
}
