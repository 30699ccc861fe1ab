package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
)

// Animation names the pet uses.
const (
	Move     = "move"
	MoveLeft = "move_left"
	Drag     = "drag"
)

// IdleNames are the idle animations, played at random.
var IdleNames = []string{"idle1", "idle2", "idle3", "idle4"}

// DragDelay is how long each drag frame stays up, in ms.
const DragDelay = 1000

// Sprites is every animation of the pet, keyed by name.
type Sprites map[string]Frames

// Size is the move animation's frame size, which the pet's body uses.
func (s Sprites) Size() image.Point {
	return s[Move].Size()
}

// LoadSprites reads <name>.gif for each animation from dir and scales it.
// Missing or broken files are replaced by placeholders; the returned error
// joins every problem found so the caller can log it.
func LoadSprites(dir string, scale float64) (Sprites, error) {
	return LoadSpritesFS(os.DirFS(dir), scale)
}

func LoadSpritesFS(fsys fs.FS, scale float64) (Sprites, error) {
	names := append([]string{Move, Drag}, IdleNames...)
	out := make(Sprites, len(names)+1)

	var errs []error
	for _, name := range names {
		frames, err := loadGIF(fsys, name+".gif")
		if err != nil {
			errs = append(errs, err)
			frames = Placeholder(name)
		}
		out[name] = Scale(frames, scale)
	}

	out[MoveLeft] = Mirror(out[Move])
	out[Drag] = WithDelay(out[Drag], DragDelay)
	return out, errors.Join(errs...)
}

func loadGIF(fsys fs.FS, name string) (Frames, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Frames{}, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	frames, err := DecodeGIF(f)
	if err != nil {
		return Frames{}, fmt.Errorf("%s: %w", name, err)
	}
	return frames, nil
}
