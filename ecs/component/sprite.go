package component

import (
	"github.com/hajimehoshi/ebiten/v2"
)

type Sprite struct {
	Image *ebiten.Image
	// Alpha multiplies the drawn image; 1 is opaque.
	Alpha float64
}

var SpriteComponent = NewComponent[Sprite]()
