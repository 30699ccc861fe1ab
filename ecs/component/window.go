package component

// Window mirrors the OS window hosting the pet. The pet occupies the
// rectangle at PetX, PetY inside it; the rest is room for the chat panel.
type Window struct {
	X, Y          int
	Width, Height int
	PetX, PetY    int

	ScreenW, ScreenH int

	ClickThrough bool
	// ChatW and ChatH are the chat panel size; zero when hidden.
	ChatW, ChatH int
	ChatX, ChatY int
}

var WindowComponent = NewComponent[Window]()
