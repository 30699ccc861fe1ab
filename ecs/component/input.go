package component

// Pointer is the mouse as seen by the pet window this frame.
type Pointer struct {
	// GlobalX and GlobalY are screen coordinates.
	GlobalX float64
	GlobalY float64
	// LocalX and LocalY are relative to the window.
	LocalX int
	LocalY int

	OverPet bool

	LeftPressed  bool
	LeftReleased bool
	RightPressed bool
}

var PointerComponent = NewComponent[Pointer]()

// Drag tracks a left-button drag of the pet window.
type Drag struct {
	Active  bool
	OffsetX float64
	OffsetY float64
}

var DragComponent = NewComponent[Drag]()
