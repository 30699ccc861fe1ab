// Command petview plays the pet's animations one at a time, for checking a
// sprite directory before pointing the pet at it.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/deskpet/assets"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/ecs/entity"
)

const viewSize = 512

type viewer struct {
	names []string
	sets  map[string]*component.FrameSet
	anim  component.Animation
}

func newViewer(sprites assets.Sprites) *viewer {
	names := make([]string, 0, len(sprites))
	for name := range sprites {
		names = append(names, name)
	}
	slices.Sort(names)

	v := &viewer{names: names, sets: entity.FrameSets(sprites)}
	v.anim.Sets = v.sets
	v.anim.Play(names[0])
	return v
}

func (v *viewer) show(step int) {
	i := slices.Index(v.names, v.anim.Current)
	i = (i + step + len(v.names)) % len(v.names)
	v.anim.Play(v.names[i])
}

func (v *viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.show(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.show(-1)
	}

	set := v.sets[v.anim.Current]
	if set == nil || len(set.Frames) <= 1 {
		return nil
	}
	v.anim.Elapsed += 1000 / float64(ebiten.TPS())
	if d := float64(set.Delay(v.anim.Frame)); v.anim.Elapsed >= d {
		v.anim.Elapsed -= d
		v.anim.Frame = (v.anim.Frame + 1) % len(set.Frames)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	set := v.sets[v.anim.Current]
	if set == nil || len(set.Frames) == 0 {
		return
	}
	frame := set.Frames[v.anim.Frame]
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(viewSize-fw)/2, float64(viewSize-fh)/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(frame, op)

	msg := fmt.Sprintf("%s  frame %d/%d  %dms  %dx%d\n<- -> switch animation",
		v.anim.Current, v.anim.Frame+1, len(set.Frames), set.Delay(v.anim.Frame), fw, fh)
	ebitenutil.DebugPrint(screen, msg)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

func main() {
	dir := flag.String("dir", "gifs", "sprite directory")
	scale := flag.Float64("scale", 1, "sprite scale")
	flag.Parse()

	sprites, err := assets.LoadSprites(*dir, *scale)
	if err != nil {
		log.Printf("some sprites replaced by placeholders: %v", err)
	}

	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("petview " + *dir)
	if err := ebiten.RunGame(newViewer(sprites)); err != nil {
		log.Fatal(err)
	}
}
